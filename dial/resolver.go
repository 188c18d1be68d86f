package dial

import (
	"fmt"

	"dial/hal"
)

// Policy selects where whole turns are discarded. With floored integer
// division both policies give the same angle for every raw position; they
// differ only in the order of operations. WrapBeforeScale keeps the
// intermediate values small.
type Policy uint8

const (
	// WrapBeforeScale wraps the raw position into [0, period) and then
	// scales it to degrees.
	WrapBeforeScale Policy = iota
	// ScaleThenWrap scales the unbounded raw position to degrees and wraps
	// only the final value.
	ScaleThenWrap
)

func (p Policy) String() string {
	switch p {
	case WrapBeforeScale:
		return "wrap"
	case ScaleThenWrap:
		return "scale"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "wrap":
		return WrapBeforeScale, nil
	case "scale":
		return ScaleThenWrap, nil
	default:
		return 0, fmt.Errorf("dial: unknown resolver policy %q (must be wrap or scale)", s)
	}
}

// PositionResolver turns count + offset into an angle in [0, 360).
type PositionResolver struct {
	cell   *CounterCell
	acc    *OverflowAccumulator
	period int32
	policy Policy
}

// NewPositionResolver returns a resolver for one revolution of period raw
// units.
func NewPositionResolver(cell *CounterCell, acc *OverflowAccumulator, period int32, policy Policy) (*PositionResolver, error) {
	if period <= 0 {
		return nil, fmt.Errorf("dial: period %d must be positive", period)
	}
	return &PositionResolver{cell: cell, acc: acc, period: period, policy: policy}, nil
}

// Raw returns count + offset. Both are read inside the cell lock so the
// interrupt cannot fold a step in between.
func (r *PositionResolver) Raw() int32 {
	var raw int32
	r.cell.With(func(u hal.PulseUnit) {
		raw = int32(u.Value()) + r.acc.Offset()
	})
	return raw
}

// Resolve reads the counter and returns the current angle in degrees.
func (r *PositionResolver) Resolve() int {
	return r.Angle(r.Raw())
}

// Offset returns the accumulated saturation offset.
func (r *PositionResolver) Offset() int32 { return r.acc.Offset() }

// Position wraps raw into [0, period).
func (r *PositionResolver) Position(raw int32) int32 {
	return floorMod(raw, r.period)
}

// Angle converts a raw position to whole degrees in [0, 360).
func (r *PositionResolver) Angle(raw int32) int {
	if r.policy == ScaleThenWrap {
		deg := floorDiv(int64(raw)*360, int64(r.period))
		return int(floorMod(deg, 360))
	}
	return int(int64(r.Position(raw)) * 360 / int64(r.period))
}

func floorMod[T int32 | int64](a, m T) T {
	v := a % m
	if v < 0 {
		v += m
	}
	return v
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
