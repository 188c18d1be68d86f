// Package dial tracks the absolute position of a rotary encoder and renders
// it, together with button and touch state, on a round display.
//
// The pulse counter only holds a small bounded count. Each time it saturates
// the counter interrupt folds one full bound into an offset, so
// count + offset is the unbounded position. A fixed-cadence loop resolves
// that position into an angle, samples the inputs, and redraws only when
// something changed.
package dial

import (
	"errors"
	"fmt"
	"sync"

	"dial/hal"
)

var ErrInvalidCounter = errors.New("dial: invalid counter config")

// CounterConfig bounds the hardware counter.
type CounterConfig struct {
	LowLimit  int16
	HighLimit int16
	// Filter is the glitch filter in counter clock cycles; values above
	// hal.MaxPulseFilter are clamped.
	Filter uint16
}

// Validate checks that the limits are symmetric and non-zero.
func (c CounterConfig) Validate() error {
	if c.HighLimit <= 0 {
		return fmt.Errorf("%w: high limit %d must be positive", ErrInvalidCounter, c.HighLimit)
	}
	if c.LowLimit != -c.HighLimit {
		return fmt.Errorf("%w: limits [%d, %d] must be symmetric", ErrInvalidCounter, c.LowLimit, c.HighLimit)
	}
	return nil
}

// CounterCell owns the pulse unit handle. Every access from the foreground
// loop or the interrupt handler goes through With, which holds the lock for
// the whole access.
type CounterCell struct {
	mu   sync.Locker
	unit hal.PulseUnit
}

// NewCounterCell wraps unit. lock must exclude the counter interrupt on MCU
// builds; a nil lock is replaced by a mutex.
func NewCounterCell(lock sync.Locker, unit hal.PulseUnit) *CounterCell {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &CounterCell{mu: lock, unit: unit}
}

// With runs fn with exclusive access to the unit.
func (c *CounterCell) With(fn func(u hal.PulseUnit)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.unit)
}

// QuadratureCounter decodes two out-of-phase encoder signals into a bounded
// relative count.
//
// Both channels count both edges of their signal, and the second channel has
// its sources swapped, so every edge of either line moves the count by one.
type QuadratureCounter struct {
	cell *CounterCell
	cfg  CounterConfig
}

// NewQuadratureCounter configures the unit behind cell for quadrature
// decoding on a and b and enables both limit events. The unit stays paused
// until Start so the interrupt handler can be installed first.
func NewQuadratureCounter(cell *CounterCell, a, b hal.PulseSource, cfg CounterConfig) (*QuadratureCounter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Filter > hal.MaxPulseFilter {
		cfg.Filter = hal.MaxPulseFilter
	}

	var err error
	cell.With(func(u hal.PulseUnit) {
		if u == nil {
			err = fmt.Errorf("dial: no pulse unit: %w", hal.ErrNotImplemented)
			return
		}
		err = configureQuadrature(u, a, b, cfg)
	})
	if err != nil {
		return nil, err
	}
	return &QuadratureCounter{cell: cell, cfg: cfg}, nil
}

// configureQuadrature leaves the unit paused and cleared; Start resumes it.
func configureQuadrature(u hal.PulseUnit, a, b hal.PulseSource, cfg CounterConfig) error {
	u.Pause()
	if err := u.Configure(hal.PulseUnitConfig{
		LowLimit:  cfg.LowLimit,
		HighLimit: cfg.HighLimit,
		Filter:    cfg.Filter,
	}); err != nil {
		return fmt.Errorf("dial: configure counter: %w", err)
	}

	channels := [hal.PulseChannels]hal.PulseChannelConfig{
		{
			Signal:   b,
			Control:  a,
			LowCtrl:  hal.CtrlReverse,
			HighCtrl: hal.CtrlKeep,
			PosEdge:  hal.EdgeDecrement,
			NegEdge:  hal.EdgeIncrement,
		},
		{
			Signal:   a,
			Control:  b,
			LowCtrl:  hal.CtrlReverse,
			HighCtrl: hal.CtrlKeep,
			PosEdge:  hal.EdgeIncrement,
			NegEdge:  hal.EdgeDecrement,
		},
	}
	for i, ch := range channels {
		if err := u.ConfigureChannel(i, ch); err != nil {
			return fmt.Errorf("dial: configure channel %d: %w", i, err)
		}
	}

	u.Listen(hal.PulseEvents{LowLimit: true, HighLimit: true})
	u.Clear()
	return nil
}

// Start resumes counting.
func (q *QuadratureCounter) Start() {
	q.cell.With(func(u hal.PulseUnit) { u.Resume() })
}

// Read returns the bounded count. It never blocks beyond the cell lock.
func (q *QuadratureCounter) Read() int16 {
	var v int16
	q.cell.With(func(u hal.PulseUnit) { v = u.Value() })
	return v
}

// Config returns the effective configuration (filter clamped).
func (q *QuadratureCounter) Config() CounterConfig { return q.cfg }
