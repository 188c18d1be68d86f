package hal

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPulseLimits  = errors.New("pcnt: invalid limits")
	ErrPulseFilter  = errors.New("pcnt: filter too wide")
	ErrPulseChannel = errors.New("pcnt: invalid channel")
)

// apbMHz is the clock the filter width is expressed in.
const apbMHz = 80

// maxPulseInputs is the number of distinct sources two channels can reference.
const maxPulseInputs = 2 * PulseChannels

type pulseInput struct {
	src   PulseSource
	level bool
	at    uint64
	seen  bool
}

type pulseChannel struct {
	cfg        PulseChannelConfig
	configured bool
}

// SoftPulseUnit is a software model of a two-channel pulse counter unit.
// The host simulator feeds it synthetic encoder edges; boards without a
// counter peripheral feed it from pin-change interrupts. Either way it
// behaves like the hardware block: bounded count, reset on limit, latched
// limit events.
//
// It is safe for use from interrupt context when constructed with an
// interrupt-masking lock.
type SoftPulseUnit struct {
	mu sync.Locker

	cfg      PulseUnitConfig
	filterNS uint64
	channels [PulseChannels]pulseChannel
	inputs   [maxPulseInputs]pulseInput
	nInputs  int

	count   int16
	running bool
	listen  PulseEvents
	events  PulseEvents
	pending bool
	handler func()
}

var _ PulseUnit = (*SoftPulseUnit)(nil)

// NewSoftPulseUnit returns a paused, unconfigured unit guarded by lock. A nil lock is
// replaced by a mutex.
func NewSoftPulseUnit(lock sync.Locker) *SoftPulseUnit {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &SoftPulseUnit{mu: lock}
}

func (u *SoftPulseUnit) Configure(cfg PulseUnitConfig) error {
	if cfg.LowLimit >= 0 || cfg.HighLimit <= 0 {
		return fmt.Errorf("%w: low=%d high=%d", ErrPulseLimits, cfg.LowLimit, cfg.HighLimit)
	}
	if cfg.Filter > MaxPulseFilter {
		return fmt.Errorf("%w: %d > %d", ErrPulseFilter, cfg.Filter, MaxPulseFilter)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.cfg = cfg
	u.filterNS = uint64(cfg.Filter) * 1000 / apbMHz
	u.count = 0
	u.running = false
	u.events = PulseEvents{}
	u.pending = false
	return nil
}

func (u *SoftPulseUnit) ConfigureChannel(n int, cfg PulseChannelConfig) error {
	if n < 0 || n >= PulseChannels {
		return fmt.Errorf("%w: %d", ErrPulseChannel, n)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.channels[n] = pulseChannel{cfg: cfg, configured: true}
	u.track(cfg.Signal)
	u.track(cfg.Control)
	return nil
}

func (u *SoftPulseUnit) track(src PulseSource) {
	if u.lookup(src) != nil {
		return
	}
	if u.nInputs < len(u.inputs) {
		u.inputs[u.nInputs] = pulseInput{src: src}
		u.nInputs++
	}
}

func (u *SoftPulseUnit) lookup(src PulseSource) *pulseInput {
	for i := 0; i < u.nInputs; i++ {
		if u.inputs[i].src == src {
			return &u.inputs[i]
		}
	}
	return nil
}

func (u *SoftPulseUnit) Value() int16 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

func (u *SoftPulseUnit) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count = 0
}

func (u *SoftPulseUnit) Listen(ev PulseEvents) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listen = ev
}

func (u *SoftPulseUnit) Resume() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.running = true
}

func (u *SoftPulseUnit) Pause() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.running = false
}

func (u *SoftPulseUnit) InterruptPending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending
}

func (u *SoftPulseUnit) TakeEvents() PulseEvents {
	u.mu.Lock()
	defer u.mu.Unlock()
	ev := u.events
	u.events = PulseEvents{}
	return ev
}

func (u *SoftPulseUnit) AckInterrupt() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = false
}

func (u *SoftPulseUnit) SetInterruptHandler(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handler = fn
}

// SetLevel records the current level of a source without counting, so the
// first real edge is decoded against the true idle state.
func (u *SoftPulseUnit) SetLevel(src PulseSource, level bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if in := u.lookup(src); in != nil {
		in.level = level
	}
}

// Edge feeds a level change on src observed at time at (nanoseconds, any
// monotonic origin). A listened limit event runs the interrupt handler after
// the unit lock is released, mirroring the peripheral raising its IRQ line.
func (u *SoftPulseUnit) Edge(src PulseSource, level bool, at uint64) {
	u.mu.Lock()
	fire := u.edgeLocked(src, level, at)
	handler := u.handler
	u.mu.Unlock()

	if fire && handler != nil {
		handler()
	}
}

func (u *SoftPulseUnit) edgeLocked(src PulseSource, level bool, at uint64) bool {
	in := u.lookup(src)
	if in == nil || in.level == level {
		return false
	}
	if u.filterNS > 0 && in.seen && at-in.at < u.filterNS {
		return false
	}
	in.level = level
	in.at = at
	in.seen = true

	if !u.running {
		return false
	}

	fire := false
	for i := range u.channels {
		ch := &u.channels[i]
		if !ch.configured || ch.cfg.Signal != src {
			continue
		}
		switch u.action(ch, level) {
		case EdgeIncrement:
			fire = u.add(1) || fire
		case EdgeDecrement:
			fire = u.add(-1) || fire
		}
	}
	return fire
}

func (u *SoftPulseUnit) action(ch *pulseChannel, level bool) EdgeMode {
	rising := level != ch.cfg.InvertSignal
	mode := ch.cfg.NegEdge
	if rising {
		mode = ch.cfg.PosEdge
	}

	ctrlHigh := false
	if c := u.lookup(ch.cfg.Control); c != nil {
		ctrlHigh = c.level
	}
	ctrlHigh = ctrlHigh != ch.cfg.InvertControl

	ctrl := ch.cfg.LowCtrl
	if ctrlHigh {
		ctrl = ch.cfg.HighCtrl
	}
	switch ctrl {
	case CtrlReverse:
		switch mode {
		case EdgeIncrement:
			return EdgeDecrement
		case EdgeDecrement:
			return EdgeIncrement
		}
	case CtrlDisable:
		return EdgeHold
	}
	return mode
}

// add moves the count by d and handles the limits. It reports whether the
// interrupt handler should run.
func (u *SoftPulseUnit) add(d int16) bool {
	u.count += d

	switch {
	case u.count >= u.cfg.HighLimit:
		u.count = 0
		u.events.HighLimit = true
		if u.listen.HighLimit {
			u.pending = true
			return true
		}
	case u.count <= u.cfg.LowLimit:
		u.count = 0
		u.events.LowLimit = true
		if u.listen.LowLimit {
			u.pending = true
			return true
		}
	}
	return false
}
