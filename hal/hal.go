package hal

import (
	"errors"
	"sync"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	Present() error
}

// QuadratureInput names the pulse counter unit and the two encoder signals
// wired to it.
type QuadratureInput struct {
	Unit PulseUnit
	A    PulseSource
	B    PulseSource
}

// HAL provides the only contact point between the dial and the outside world.
type HAL interface {
	Logger() Logger
	Quadrature() QuadratureInput
	// Button returns nil when the board has no push button.
	Button() GPIOPin
	// TouchBus returns nil when no touch controller is fitted.
	TouchBus() drivers.I2C
	// Display returns nil when the panel could not be brought up.
	Display() drivers.Displayer
	// Locker excludes the counter interrupt from the foreground loop.
	Locker() sync.Locker
}
