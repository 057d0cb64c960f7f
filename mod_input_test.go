package fractalbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_PressReleaseEdges(t *testing.T) {
	var in Input

	in.Press(KeyW)
	assert.True(t, in.Pressed[KeyW])
	assert.True(t, in.JustPressed[KeyW])

	in.Press(KeyW)
	assert.True(t, in.Pressed[KeyW])
	assert.False(t, in.JustPressed[KeyW], "held key is not a new press")

	in.Release(KeyW)
	assert.False(t, in.Pressed[KeyW])
	assert.True(t, in.JustReleased[KeyW])

	in.Release(KeyW)
	assert.False(t, in.JustReleased[KeyW])
}

func TestInput_ShiftEitherSide(t *testing.T) {
	var in Input
	assert.False(t, in.Shift())

	in.Press(KeyRightShift)
	assert.True(t, in.Shift())

	in.Release(KeyRightShift)
	in.Press(KeyLeftShift)
	assert.True(t, in.Shift())
}

func TestInput_MoveMouseDelta(t *testing.T) {
	var in Input
	in.MoveMouse(10, 20)
	in.MoveMouse(13, 18)

	assert.Equal(t, 3.0, in.MouseDeltaX)
	assert.Equal(t, -2.0, in.MouseDeltaY)
	assert.Equal(t, 13.0, in.MouseX)
}

func TestInput_KeyTablesFitArrays(t *testing.T) {
	for k := range keyToGlfw {
		assert.Less(t, k, 256)
	}
	assert.Less(t, MouseButtonMiddle, 256)
	assert.Len(t, buttonToGlfw, 3)
}
