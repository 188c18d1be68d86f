package dial

import "dial/hal"

// MaxTouches is the number of touch points tracked.
const MaxTouches = 2

// TouchPoint is a touch in controller coordinates.
type TouchPoint struct {
	X, Y  uint16
	Valid bool
}

// InputSnapshot is the button and touch state for one tick.
type InputSnapshot struct {
	Pressed bool
	Touches [MaxTouches]TouchPoint
}

// TouchSource reports up to two touch points. It never fails; a bad read
// shows up as stale data.
type TouchSource interface {
	Touches() [MaxTouches]TouchPoint
}

// InputSampler polls the button and touch panel once per tick.
type InputSampler struct {
	button  hal.GPIOPin
	touch   TouchSource
	pressed bool
}

// NewInputSampler returns a sampler. Either input may be nil.
func NewInputSampler(button hal.GPIOPin, touch TouchSource) *InputSampler {
	return &InputSampler{button: button, touch: touch}
}

// Sample reads the inputs. The button is active-low. A failed button read
// keeps the previous state until the next tick.
func (s *InputSampler) Sample() InputSnapshot {
	if s.button != nil {
		if level, err := s.button.Read(); err == nil {
			s.pressed = !level
		}
	}

	snap := InputSnapshot{Pressed: s.pressed}
	if s.touch != nil {
		snap.Touches = s.touch.Touches()
	}
	return snap
}
