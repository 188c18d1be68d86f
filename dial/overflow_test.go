package dial

import (
	"math/rand"
	"testing"

	"dial/hal"
)

func TestHandleInterruptTieBreakPrefersHigh(t *testing.T) {
	f := &fakeUnit{pending: true, events: hal.PulseEvents{LowLimit: true, HighLimit: true}}
	acc := NewOverflowAccumulator(NewCounterCell(nil, f), 100)

	acc.HandleInterrupt()
	if got := acc.Offset(); got != 100 {
		t.Fatalf("Offset() = %d, want 100", got)
	}
	if f.acks != 1 {
		t.Fatalf("acks = %d, want 1", f.acks)
	}
	if f.events.Any() {
		t.Fatalf("events not cleared: %+v", f.events)
	}
}

func TestHandleInterruptLowLimit(t *testing.T) {
	f := &fakeUnit{pending: true, events: hal.PulseEvents{LowLimit: true}}
	acc := NewOverflowAccumulator(NewCounterCell(nil, f), 100)

	acc.HandleInterrupt()
	if got := acc.Offset(); got != -100 {
		t.Fatalf("Offset() = %d, want -100", got)
	}
}

func TestHandleInterruptWithoutFlagIsNoop(t *testing.T) {
	f := &fakeUnit{events: hal.PulseEvents{HighLimit: true}}
	acc := NewOverflowAccumulator(NewCounterCell(nil, f), 100)

	acc.HandleInterrupt()
	if got := acc.Offset(); got != 0 {
		t.Fatalf("Offset() = %d, want 0", got)
	}
	if f.acks != 0 {
		t.Fatalf("acks = %d, want 0", f.acks)
	}
	if !f.events.HighLimit {
		t.Fatal("events consumed without a pending interrupt")
	}
}

func TestInstallRegistersHandler(t *testing.T) {
	f := &fakeUnit{}
	acc := NewOverflowAccumulator(NewCounterCell(nil, f), 100)
	acc.Install()
	if f.handler == nil {
		t.Fatal("handler not installed")
	}

	f.pending = true
	f.events = hal.PulseEvents{HighLimit: true}
	f.handler()
	if got := acc.Offset(); got != 100 {
		t.Fatalf("Offset() = %d, want 100", got)
	}
}

func TestOneStepPerSaturation(t *testing.T) {
	r := newRig(t, 100, 128)

	r.enc.turn(100)
	if got := r.acc.Offset(); got != 100 {
		t.Fatalf("Offset() after one saturation = %d, want 100", got)
	}
	r.enc.turn(350)
	if got := r.acc.Offset(); got != 400 {
		t.Fatalf("Offset() after four saturations = %d, want 400", got)
	}
	if got := r.counter.Read(); got != 50 {
		t.Fatalf("Read() = %d, want 50", got)
	}
}

func TestPositionIsSaturationTransparent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, limit := range []int16{3, 10, 100} {
		r := newRig(t, limit, 128)
		net := int32(0)
		for i := 0; i < 500; i++ {
			n := rng.Intn(2*int(limit)+50) - int(limit) - 25
			r.enc.turn(n)
			net += int32(n)
			if got := r.resolver.Raw(); got != net {
				t.Fatalf("limit %d step %d: Raw() = %d, want %d (offset %d)", limit, i, got, net, r.acc.Offset())
			}
		}
	}
}
