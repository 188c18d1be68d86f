package dial

import (
	"sync/atomic"

	"dial/hal"
)

// OverflowAccumulator extends the bounded count into an unbounded position.
// The offset is changed only by HandleInterrupt, one step per limit event.
type OverflowAccumulator struct {
	cell   *CounterCell
	step   int32
	offset atomic.Int32
}

// NewOverflowAccumulator returns an accumulator that moves the offset by
// step, the full bound the counter covers before it resets.
func NewOverflowAccumulator(cell *CounterCell, step int32) *OverflowAccumulator {
	return &OverflowAccumulator{cell: cell, step: step}
}

// Install registers HandleInterrupt as the unit's interrupt handler.
func (a *OverflowAccumulator) Install() {
	a.cell.With(func(u hal.PulseUnit) { u.SetInterruptHandler(a.HandleInterrupt) })
}

// HandleInterrupt runs in interrupt context. It must not block or log.
//
// If both limit flags are set the high limit wins and only one step is
// applied. A call with no pending interrupt does nothing.
func (a *OverflowAccumulator) HandleInterrupt() {
	a.cell.With(func(u hal.PulseUnit) {
		if !u.InterruptPending() {
			return
		}
		ev := u.TakeEvents()
		switch {
		case ev.HighLimit:
			a.offset.Add(a.step)
		case ev.LowLimit:
			a.offset.Add(-a.step)
		}
		u.AckInterrupt()
	})
}

// Offset returns the accumulated offset.
func (a *OverflowAccumulator) Offset() int32 { return a.offset.Load() }
