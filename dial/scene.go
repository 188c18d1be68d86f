package dial

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var ErrNoDisplay = errors.New("dial: no display")

// Point is a pixel position on the display.
type Point struct {
	X, Y int16
}

// Style is the stroke and fill of a primitive. The stroke is drawn inside
// the shape's outline.
type Style struct {
	Stroke      color.RGBA
	StrokeWidth int16
	Fill        color.RGBA
}

// Sink is the rasterizer and display driver the scene is drawn into.
type Sink interface {
	Size() (w, h int16)
	Clear(c color.RGBA) error
	FillCircle(center Point, diameter int16, st Style) error
	FillRectangle(origin Point, w, h int16, st Style) error
	// Flush pushes a completed frame to the panel.
	Flush() error
}

var (
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// SceneConfig sizes the scene.
type SceneConfig struct {
	Radius           int16
	PressedDiameter  int16
	ReleasedDiameter int16
	TouchDiameter    int16
}

// SceneComposer maps a FrameState to draw calls.
type SceneComposer struct {
	cfg        SceneConfig
	Background color.RGBA
	Indicator  Style
	Touch      Style
}

// NewSceneComposer returns a composer with the stock palette.
func NewSceneComposer(cfg SceneConfig) *SceneComposer {
	return &SceneComposer{
		cfg:        cfg,
		Background: Blue,
		Indicator:  Style{Stroke: Yellow, StrokeWidth: 4, Fill: Black},
		Touch:      Style{Stroke: White, StrokeWidth: 2, Fill: Red},
	}
}

// IndicatorCenter is where the indicator sits for angle on a w x h display.
func (c *SceneComposer) IndicatorCenter(w, h int16, angle int) Point {
	rad := float64(angle) * math.Pi / 180
	r := float64(c.cfg.Radius)
	return Point{
		X: int16(math.Round(float64(w/2) + r*math.Cos(rad))),
		Y: int16(math.Round(float64(h/2) + r*math.Sin(rad))),
	}
}

// IndicatorDiameter shrinks the indicator while the button is held.
func (c *SceneComposer) IndicatorDiameter(pressed bool) int16 {
	if pressed {
		return c.cfg.PressedDiameter
	}
	return c.cfg.ReleasedDiameter
}

// TouchCenter maps controller coordinates to the display. The panel is
// mounted a quarter turn from the controller: x_display = y_touch and
// y_display = h - x_touch.
func (c *SceneComposer) TouchCenter(h int16, t TouchPoint) Point {
	return Point{X: int16(t.Y), Y: h - int16(t.X)}
}

// Compose redraws the whole frame for s.
func (c *SceneComposer) Compose(sink Sink, s FrameState) error {
	if sink == nil {
		return ErrNoDisplay
	}
	w, h := sink.Size()

	if err := sink.Clear(c.Background); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	center := c.IndicatorCenter(w, h, s.Angle)
	if err := sink.FillCircle(center, c.IndicatorDiameter(s.Pressed), c.Indicator); err != nil {
		return fmt.Errorf("indicator: %w", err)
	}

	for i, t := range s.Touches {
		if !t.Valid {
			continue
		}
		if err := sink.FillCircle(c.TouchCenter(h, t), c.cfg.TouchDiameter, c.Touch); err != nil {
			return fmt.Errorf("touch %d: %w", i, err)
		}
	}

	if err := sink.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
