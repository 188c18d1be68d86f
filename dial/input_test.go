package dial

import (
	"errors"
	"testing"
)

func TestInputSamplerButtonActiveLow(t *testing.T) {
	pin := &fakePin{level: true}
	s := NewInputSampler(pin, nil)

	if s.Sample().Pressed {
		t.Fatal("high level reported as pressed")
	}
	pin.level = false
	if !s.Sample().Pressed {
		t.Fatal("low level reported as released")
	}
}

func TestInputSamplerKeepsStateOnReadError(t *testing.T) {
	pin := &fakePin{level: false}
	s := NewInputSampler(pin, nil)
	if !s.Sample().Pressed {
		t.Fatal("expected pressed")
	}

	pin.level = true
	pin.err = errors.New("bus fault")
	if !s.Sample().Pressed {
		t.Fatal("failed read changed the button state")
	}

	pin.err = nil
	if s.Sample().Pressed {
		t.Fatal("expected released after recovery")
	}
}

func TestInputSamplerTouches(t *testing.T) {
	touch := &fakeTouch{}
	touch.points[1] = TouchPoint{X: 10, Y: 20, Valid: true}
	s := NewInputSampler(nil, touch)

	snap := s.Sample()
	if snap.Pressed {
		t.Fatal("no button should read released")
	}
	if snap.Touches[0].Valid || !snap.Touches[1].Valid {
		t.Fatalf("touches = %+v", snap.Touches)
	}
	if snap.Touches[1].X != 10 || snap.Touches[1].Y != 20 {
		t.Fatalf("touch 1 = %+v, want (10,20)", snap.Touches[1])
	}
}
