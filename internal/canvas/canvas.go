// Package canvas draws dial scenes onto any TinyGo display driver.
package canvas

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"

	"dial/dial"
)

// rectFiller is implemented by drivers with a hardware or bulk fill path.
type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Canvas is a dial.Sink over a drivers.Displayer.
type Canvas struct {
	d drivers.Displayer
}

// New wraps d.
func New(d drivers.Displayer) *Canvas {
	return &Canvas{d: d}
}

func (c *Canvas) Size() (int16, int16) { return c.d.Size() }

// Clear fills the whole display.
func (c *Canvas) Clear(col color.RGBA) error {
	w, h := c.d.Size()
	return c.FillRectangle(dial.Point{}, w, h, dial.Style{Fill: col})
}

// FillCircle draws a filled circle with the stroke inside the outline.
func (c *Canvas) FillCircle(center dial.Point, diameter int16, st dial.Style) error {
	if diameter <= 0 {
		return nil
	}
	r := diameter / 2
	if st.StrokeWidth <= 0 {
		tinydraw.FilledCircle(c.d, center.X, center.Y, r, st.Fill)
		return nil
	}
	tinydraw.FilledCircle(c.d, center.X, center.Y, r, st.Stroke)
	if inner := r - st.StrokeWidth; inner >= 0 {
		tinydraw.FilledCircle(c.d, center.X, center.Y, inner, st.Fill)
	}
	return nil
}

// FillRectangle draws a filled rectangle with the stroke inside the outline.
func (c *Canvas) FillRectangle(origin dial.Point, w, h int16, st dial.Style) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	sw := st.StrokeWidth
	if sw <= 0 {
		return c.fillRect(origin.X, origin.Y, w, h, st.Fill)
	}
	if err := c.fillRect(origin.X, origin.Y, w, h, st.Stroke); err != nil {
		return err
	}
	if w > 2*sw && h > 2*sw {
		return c.fillRect(origin.X+sw, origin.Y+sw, w-2*sw, h-2*sw, st.Fill)
	}
	return nil
}

// Flush pushes the frame to the panel.
func (c *Canvas) Flush() error {
	if err := c.d.Display(); err != nil {
		return fmt.Errorf("canvas: display: %w", err)
	}
	return nil
}

func (c *Canvas) fillRect(x, y, w, h int16, col color.RGBA) error {
	if f, ok := c.d.(rectFiller); ok {
		if err := f.FillRectangle(x, y, w, h, col); err != nil {
			return fmt.Errorf("canvas: fill %dx%d at (%d,%d): %w", w, h, x, y, err)
		}
		return nil
	}
	return tinydraw.FilledRectangle(c.d, x, y, w, h, col)
}
