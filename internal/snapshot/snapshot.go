// Package snapshot renders dial frames into PNG files with an anti-aliased
// 2D context, for comparing frames from the simulator.
package snapshot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"dial/dial"
)

// Recorder is a dial.Sink that writes each flushed frame to
// dir/frame-NNNNN.png.
type Recorder struct {
	c   *gg.Context
	w   int16
	h   int16
	dir string
	n   int
}

// New returns a w x h recorder writing into dir, creating it if needed.
func New(dir string, w, h int16) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return &Recorder{c: gg.NewContext(int(w), int(h)), w: w, h: h, dir: dir}, nil
}

func (r *Recorder) Size() (int16, int16) { return r.w, r.h }

func (r *Recorder) Clear(c color.RGBA) error {
	return r.FillRectangle(dial.Point{}, r.w, r.h, dial.Style{Fill: c})
}

func (r *Recorder) FillCircle(center dial.Point, diameter int16, st dial.Style) error {
	x, y := float64(center.X), float64(center.Y)
	rad := float64(diameter) / 2
	if st.StrokeWidth > 0 {
		r.c.SetColor(st.Stroke)
		r.c.DrawCircle(x, y, rad)
		r.c.Fill()
		rad -= float64(st.StrokeWidth)
	}
	if rad > 0 {
		r.c.SetColor(st.Fill)
		r.c.DrawCircle(x, y, rad)
		r.c.Fill()
	}
	return nil
}

func (r *Recorder) FillRectangle(origin dial.Point, w, h int16, st dial.Style) error {
	x, y := float64(origin.X), float64(origin.Y)
	fw, fh := float64(w), float64(h)
	if sw := float64(st.StrokeWidth); sw > 0 {
		r.c.SetColor(st.Stroke)
		r.c.DrawRectangle(x, y, fw, fh)
		r.c.Fill()
		x, y, fw, fh = x+sw, y+sw, fw-2*sw, fh-2*sw
	}
	if fw > 0 && fh > 0 {
		r.c.SetColor(st.Fill)
		r.c.DrawRectangle(x, y, fw, fh)
		r.c.Fill()
	}
	return nil
}

// Flush writes the current frame.
func (r *Recorder) Flush() error {
	path := filepath.Join(r.dir, fmt.Sprintf("frame-%05d.png", r.n))
	if err := r.c.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	r.n++
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int { return r.n }
