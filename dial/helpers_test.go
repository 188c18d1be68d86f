package dial

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"dial/hal"
)

const (
	testA hal.PulseSource = 0
	testB hal.PulseSource = 1
)

// encoder drives a hal.SoftPulseUnit with quadrature edges. Positive edges are
// B-leading and count up.
type encoder struct {
	u     *hal.SoftPulseUnit
	state int
	now   uint64
}

var gray = [4][2]bool{{false, false}, {false, true}, {true, true}, {true, false}}

func (e *encoder) turn(edges int) {
	dir := 1
	if edges < 0 {
		dir, edges = -1, -edges
	}
	for i := 0; i < edges; i++ {
		prev := gray[e.state]
		e.state = (e.state + dir + 4) % 4
		next := gray[e.state]
		e.now += 50_000
		if prev[0] != next[0] {
			e.u.Edge(testA, next[0], e.now)
		} else {
			e.u.Edge(testB, next[1], e.now)
		}
	}
}

type rig struct {
	unit     *hal.SoftPulseUnit
	enc      *encoder
	cell     *CounterCell
	counter  *QuadratureCounter
	acc      *OverflowAccumulator
	resolver *PositionResolver
}

func newRig(t *testing.T, limit int16, period int32) *rig {
	t.Helper()
	unit := hal.NewSoftPulseUnit(nil)
	cell := NewCounterCell(nil, unit)
	counter, err := NewQuadratureCounter(cell, testA, testB, CounterConfig{LowLimit: -limit, HighLimit: limit, Filter: 800})
	if err != nil {
		t.Fatalf("NewQuadratureCounter: %v", err)
	}
	acc := NewOverflowAccumulator(cell, int32(limit))
	acc.Install()
	counter.Start()
	resolver, err := NewPositionResolver(cell, acc, period, WrapBeforeScale)
	if err != nil {
		t.Fatalf("NewPositionResolver: %v", err)
	}
	return &rig{
		unit:     unit,
		enc:      &encoder{u: unit},
		cell:     cell,
		counter:  counter,
		acc:      acc,
		resolver: resolver,
	}
}

// fakeUnit is a hal.PulseUnit whose flags are set directly by tests.
type fakeUnit struct {
	value        int16
	pending      bool
	events       hal.PulseEvents
	acks         int
	configureErr error
	channels     []hal.PulseChannelConfig
	listen       hal.PulseEvents
	running      bool
	handler      func()
}

func (f *fakeUnit) Configure(cfg hal.PulseUnitConfig) error { return f.configureErr }
func (f *fakeUnit) ConfigureChannel(n int, cfg hal.PulseChannelConfig) error {
	f.channels = append(f.channels, cfg)
	return nil
}
func (f *fakeUnit) Value() int16                  { return f.value }
func (f *fakeUnit) Clear()                        { f.value = 0 }
func (f *fakeUnit) Listen(ev hal.PulseEvents)     { f.listen = ev }
func (f *fakeUnit) Resume()                       { f.running = true }
func (f *fakeUnit) Pause()                        { f.running = false }
func (f *fakeUnit) InterruptPending() bool        { return f.pending }
func (f *fakeUnit) AckInterrupt()                 { f.pending = false; f.acks++ }
func (f *fakeUnit) SetInterruptHandler(fn func()) { f.handler = fn }
func (f *fakeUnit) TakeEvents() hal.PulseEvents {
	ev := f.events
	f.events = hal.PulseEvents{}
	return ev
}

// recordingSink records draw calls as strings.
type recordingSink struct {
	w, h    int16
	ops     []string
	failOn  string
	flushes int
}

var errSink = errors.New("spi write failed")

func newRecordingSink() *recordingSink { return &recordingSink{w: 240, h: 240} }

func (s *recordingSink) Size() (int16, int16) { return s.w, s.h }

func (s *recordingSink) record(op string) error {
	s.ops = append(s.ops, op)
	if s.failOn != "" && s.failOn == op {
		return errSink
	}
	return nil
}

func (s *recordingSink) Clear(c color.RGBA) error {
	return s.record(fmt.Sprintf("clear %d,%d,%d", c.R, c.G, c.B))
}

func (s *recordingSink) FillCircle(center Point, diameter int16, st Style) error {
	return s.record(fmt.Sprintf("circle %d,%d d=%d", center.X, center.Y, diameter))
}

func (s *recordingSink) FillRectangle(origin Point, w, h int16, st Style) error {
	return s.record(fmt.Sprintf("rect %d,%d %dx%d", origin.X, origin.Y, w, h))
}

func (s *recordingSink) Flush() error {
	s.flushes++
	return s.record("flush")
}

func (s *recordingSink) reset() { s.ops = nil }

// fakePin is a button input.
type fakePin struct {
	level bool
	err   error
}

func (p *fakePin) Name() string                               { return "BTN" }
func (p *fakePin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *fakePin) Read() (bool, error)                        { return p.level, p.err }
func (p *fakePin) Write(bool) error                           { return hal.ErrNotImplemented }

type fakeTouch struct {
	points [MaxTouches]TouchPoint
}

func (f *fakeTouch) Touches() [MaxTouches]TouchPoint { return f.points }

type fixedAngle int

func (a fixedAngle) Resolve() int { return int(a) }
