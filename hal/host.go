//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"

	"tinygo.org/x/drivers"

	"dial/internal/ft3267"
)

// HostSize is the side of the simulated round panel in pixels.
const HostSize = 240

// hostHAL simulates the dial board: an RGB565 panel, an active-low push
// button, an FT3267 on a virtual I2C bus and a quadrature encoder feeding a
// software pulse counter.
type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	disp   *fbDisplay
	button *virtualPin
	touch  *hostTouch
	enc    *hostEncoder
	mu     sync.Mutex
}

// New returns a host HAL implementation. The encoder only counts while the
// simulator runs it (see RunHeadless and RunWindow).
func New() HAL {
	return newHost()
}

func newHost() *hostHAL {
	fb := newHostFramebuffer(HostSize, HostSize)
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     fb,
		disp:   newFBDisplay(fb),
		button: newVirtualPin("BTN", GPIOCapInput|GPIOCapPullUp),
		touch:  newHostTouch(),
		enc:    newHostEncoder(),
	}
}

func (h *hostHAL) Logger() Logger { return h.logger }

func (h *hostHAL) Quadrature() QuadratureInput {
	return QuadratureInput{Unit: h.enc.unit, A: encoderA, B: encoderB}
}

func (h *hostHAL) Button() GPIOPin            { return h.button }
func (h *hostHAL) TouchBus() drivers.I2C      { return h.touch }
func (h *hostHAL) Display() drivers.Displayer { return h.disp }
func (h *hostHAL) Locker() sync.Locker        { return &h.mu }

// Turn moves the simulated encoder by edges quadrature edges. One detent is
// four edges.
func (h *hostHAL) Turn(edges int) { h.enc.turn(edges) }

// SetPressed holds the button down (drives the line low) or releases it.
func (h *hostHAL) SetPressed(pressed bool) {
	if pressed {
		h.button.drive(false)
		return
	}
	h.button.release()
}

// SetTouches places up to two fingers on the panel, in controller
// coordinates.
func (h *hostHAL) SetTouches(points []ft3267.Point) { h.touch.set(points) }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
