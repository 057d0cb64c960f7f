// Package raster draws a DrawList into an image without a GPU, for
// snapshots and headless runs.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/gekko3d/fractalbox/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const minClipW = 1e-4

type Options struct {
	Width, Height int
	LineWidth     float32
	Background    color.Color
	TextColor     color.Color
	Face          font.Face
}

func DefaultOptions(width, height int) Options {
	return Options{
		Width:      width,
		Height:     height,
		LineWidth:  1.5,
		Background: color.RGBA{R: 26, G: 26, B: 26, A: 255},
		TextColor:  color.RGBA{R: 230, G: 230, B: 230, A: 255},
		Face:       basicfont.Face7x13,
	}
}

// Render projects every shape of dl through viewProj and strokes its
// segments. Segments with an endpoint behind the camera are skipped.
func Render(dl core.DrawList, viewProj mgl32.Mat4, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	var r vector.Rasterizer
	for _, s := range dl.Shapes {
		src := image.NewUniform(toRGBA(s.Color))
		mvp := viewProj.Mul4(s.ModelMatrix)
		for _, seg := range s.Type.Segments() {
			a, okA := Project(mvp, seg[0], opts.Width, opts.Height)
			b, okB := Project(mvp, seg[1], opts.Width, opts.Height)
			if !okA || !okB {
				continue
			}
			strokeLine(&r, img, src, a, b, opts.LineWidth)
		}
	}

	DrawText(img, dl.Overlay, opts)
	return img
}

// Project maps a model-space point to pixel coordinates. ok is false when
// the point is behind the camera.
func Project(mvp mgl32.Mat4, p mgl32.Vec3, width, height int) (mgl32.Vec2, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() < minClipW {
		return mgl32.Vec2{}, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return mgl32.Vec2{
		(ndcX + 1) * 0.5 * float32(width),
		(1 - ndcY) * 0.5 * float32(height),
	}, true
}

func strokeLine(r *vector.Rasterizer, dst *image.RGBA, src image.Image, a, b mgl32.Vec2, width float32) {
	half := width / 2
	// keep the whole quad inside dst
	inset := half + 1
	bounds := dst.Bounds()
	lo := mgl32.Vec2{float32(bounds.Min.X) + inset, float32(bounds.Min.Y) + inset}
	hi := mgl32.Vec2{float32(bounds.Max.X) - inset, float32(bounds.Max.Y) - inset}
	a, b, ok := ClipSegment(a, b, lo, hi)
	if !ok {
		return
	}

	d := b.Sub(a)
	var n mgl32.Vec2
	if l := d.Len(); l > 1e-6 {
		n = mgl32.Vec2{-d.Y() / l * half, d.X() / l * half}
	} else {
		d = mgl32.Vec2{half, 0}
		a = a.Sub(d)
		b = b.Add(d)
		n = mgl32.Vec2{0, half}
	}

	quad := [4]mgl32.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}

	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, q := range quad {
		minX, maxX = min(minX, q.X()), max(maxX, q.X())
		minY, maxY = min(minY, q.Y()), max(maxY, q.Y())
	}

	rect := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
	if rect.Empty() {
		return
	}

	// rasterize in the segment's own box to keep the coverage buffer small
	ox, oy := float32(rect.Min.X), float32(rect.Min.Y)
	r.Reset(rect.Dx(), rect.Dy())
	r.MoveTo(quad[0].X()-ox, quad[0].Y()-oy)
	for _, q := range quad[1:] {
		r.LineTo(q.X()-ox, q.Y()-oy)
	}
	r.ClosePath()
	r.Draw(dst, rect, src, image.Point{})
}

// ClipSegment trims the segment a-b to the box lo-hi (Liang-Barsky). ok is
// false when nothing of it is inside.
func ClipSegment(a, b, lo, hi mgl32.Vec2) (mgl32.Vec2, mgl32.Vec2, bool) {
	if hi.X() < lo.X() || hi.Y() < lo.Y() {
		return a, b, false
	}
	d := b.Sub(a)
	t0, t1 := float32(0), float32(1)
	edges := [4][2]float32{
		{-d.X(), a.X() - lo.X()},
		{d.X(), hi.X() - a.X()},
		{-d.Y(), a.Y() - lo.Y()},
		{d.Y(), hi.Y() - a.Y()},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}

// DrawText writes lines top-left, one per row of the face height.
func DrawText(dst draw.Image, lines []string, opts Options) {
	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(opts.TextColor),
		Face: face,
	}
	y := 8 + metrics.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(8, y)
		d.DrawString(line)
		y += metrics.Height.Ceil()
	}
}

func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toRGBA(c [4]float32) color.RGBA {
	ch := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}
