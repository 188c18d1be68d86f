package hal

// PulseSource identifies a digital input routed to a pulse counter channel.
// On MCU builds it is the machine pin number.
type PulseSource uint8

// PulseChannels is the number of channels in one pulse counter unit.
const PulseChannels = 2

// MaxPulseFilter is the widest glitch filter the counter accepts, in APB
// clock cycles (80 MHz).
const MaxPulseFilter = 1023

// EdgeMode is the action a channel takes on a signal edge.
type EdgeMode uint8

const (
	EdgeHold EdgeMode = iota
	EdgeIncrement
	EdgeDecrement
)

// CtrlMode modifies the edge action depending on the control input level.
type CtrlMode uint8

const (
	CtrlKeep CtrlMode = iota
	CtrlReverse
	CtrlDisable
)

// PulseUnitConfig bounds a pulse counter unit.
type PulseUnitConfig struct {
	LowLimit  int16
	HighLimit int16
	// Filter ignores pulses narrower than this many clock cycles. Zero
	// disables filtering.
	Filter uint16
}

// PulseChannelConfig routes a signal and a control input into one channel.
type PulseChannelConfig struct {
	Signal  PulseSource
	Control PulseSource

	LowCtrl  CtrlMode
	HighCtrl CtrlMode
	PosEdge  EdgeMode
	NegEdge  EdgeMode

	InvertSignal  bool
	InvertControl bool
}

// PulseEvents is the set of limit events a unit raises or listens for.
type PulseEvents struct {
	LowLimit  bool
	HighLimit bool
}

// Any reports whether at least one event is set.
func (e PulseEvents) Any() bool { return e.LowLimit || e.HighLimit }

// PulseUnit is a hardware pulse counter bounded to a signed range.
//
// The count resets to zero whenever it reaches either limit; the matching
// event is latched until TakeEvents and, when listened for, raises the
// interrupt until AckInterrupt.
type PulseUnit interface {
	Configure(cfg PulseUnitConfig) error
	ConfigureChannel(n int, cfg PulseChannelConfig) error
	Value() int16
	Clear()
	Listen(ev PulseEvents)
	Resume()
	Pause()

	InterruptPending() bool
	TakeEvents() PulseEvents
	AckInterrupt()

	// SetInterruptHandler installs the function run in interrupt context
	// when a listened event fires.
	SetInterruptHandler(fn func())
}
