//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"sync"

	"dial/internal/ft3267"
)

var errI2CNack = errors.New("i2c: nack")

// hostTouch is an FT3267 on a virtual I2C bus. Register reads auto-increment
// like the real part.
type hostTouch struct {
	mu   sync.Mutex
	regs [ft3267.RegisterCount]byte
	// failReg makes reads of one register fail, for exercising stale reads.
	failReg int
}

func newHostTouch() *hostTouch {
	return &hostTouch{failReg: -1}
}

func (t *hostTouch) set(points []ft3267.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regs = ft3267.Registers(points)
}

func (t *hostTouch) Tx(addr uint16, w, r []byte) error {
	if addr != ft3267.Address {
		return fmt.Errorf("%w: no device at %#x", errI2CNack, addr)
	}
	if len(w) != 1 {
		return fmt.Errorf("i2c: ft3267: want 1-byte register address, got %d bytes", len(w))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	reg := int(w[0])
	for i := range r {
		if reg+i == t.failReg {
			return fmt.Errorf("%w: register %#x", errI2CNack, reg+i)
		}
		if reg+i < len(t.regs) {
			r[i] = t.regs[reg+i]
		} else {
			r[i] = 0
		}
	}
	return nil
}
