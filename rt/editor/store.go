package editor

import (
	"github.com/gekko3d/fractalbox/rt/core"
)

// Handle is a non-owning reference to a box in a Store. It goes stale when
// the box is removed; the zero Handle never resolves.
type Handle struct {
	index      uint32
	generation uint32
}

func (h Handle) IsZero() bool {
	return h.generation == 0
}

type slot struct {
	dense      int // position in Store.boxes, -1 when free
	generation uint32
}

// Store keeps boxes densely packed in insertion order. Removal swaps the last
// box into the hole, so order is only stable until the next removal.
type Store struct {
	boxes  []core.Box
	owners []uint32 // dense index -> slot index
	slots  []slot
	free   []uint32

	idCounter uint64
}

// Create inserts a default box with a fresh id.
func (s *Store) Create() Handle {
	s.idCounter++
	return s.insert(core.NewBox(s.idCounter))
}

func (s *Store) insert(b core.Box) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{dense: -1})
	}

	sl := &s.slots[idx]
	sl.generation++
	sl.dense = len(s.boxes)

	s.boxes = append(s.boxes, b)
	s.owners = append(s.owners, idx)
	return Handle{index: idx, generation: sl.generation}
}

// Get resolves h. A stale or zero handle yields nil, false.
func (s *Store) Get(h Handle) (*core.Box, bool) {
	i, ok := s.denseIndex(h)
	if !ok {
		return nil, false
	}
	return &s.boxes[i], true
}

func (s *Store) Contains(h Handle) bool {
	_, ok := s.denseIndex(h)
	return ok
}

func (s *Store) Remove(h Handle) bool {
	i, ok := s.denseIndex(h)
	if !ok {
		return false
	}

	last := len(s.boxes) - 1
	if i != last {
		s.boxes[i] = s.boxes[last]
		s.owners[i] = s.owners[last]
		s.slots[s.owners[i]].dense = i
	}
	s.boxes = s.boxes[:last]
	s.owners = s.owners[:last]

	s.slots[h.index].dense = -1
	s.free = append(s.free, h.index)
	return true
}

func (s *Store) Len() int {
	return len(s.boxes)
}

// Boxes exposes the dense backing slice. Callers must not append to it.
func (s *Store) Boxes() []core.Box {
	return s.boxes
}

// HandleAt returns the handle of the box at dense position i.
func (s *Store) HandleAt(i int) Handle {
	idx := s.owners[i]
	return Handle{index: idx, generation: s.slots[idx].generation}
}

func (s *Store) denseIndex(h Handle) (int, bool) {
	if h.generation == 0 || int(h.index) >= len(s.slots) {
		return 0, false
	}
	sl := s.slots[h.index]
	if sl.generation != h.generation || sl.dense < 0 {
		return 0, false
	}
	return sl.dense, true
}
