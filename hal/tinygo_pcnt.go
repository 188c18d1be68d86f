//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// pinPulseUnit is a SoftPulseUnit fed from pin-change interrupts, for chips
// without a pulse counter peripheral. Each channel's pins are set up as
// pulled-up inputs when the channel is configured.
type pinPulseUnit struct {
	*SoftPulseUnit
	boot     time.Time
	attached []PulseSource
}

func newPinPulseUnit() *pinPulseUnit {
	return &pinPulseUnit{
		SoftPulseUnit: NewSoftPulseUnit(&irqLocker{}),
		boot:          time.Now(),
	}
}

func (u *pinPulseUnit) ConfigureChannel(n int, cfg PulseChannelConfig) error {
	if err := u.SoftPulseUnit.ConfigureChannel(n, cfg); err != nil {
		return err
	}
	for _, src := range [2]PulseSource{cfg.Signal, cfg.Control} {
		if err := u.attach(src); err != nil {
			return err
		}
	}
	return nil
}

func (u *pinPulseUnit) attach(src PulseSource) error {
	for _, a := range u.attached {
		if a == src {
			return nil
		}
	}
	u.attached = append(u.attached, src)

	pin := machine.Pin(src)
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	u.SetLevel(src, pin.Get())
	return pin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		u.Edge(src, p.Get(), uint64(time.Since(u.boot)))
	})
}
