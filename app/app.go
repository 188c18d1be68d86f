// Package app wires a HAL to the dial: counter, overflow interrupt,
// resolver, inputs and render loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"dial/dial"
	"dial/hal"
	"dial/internal/buildinfo"
	"dial/internal/canvas"
	"dial/internal/config"
	"dial/internal/ft3267"
)

// Options adjusts wiring for simulator runs.
type Options struct {
	// Sink replaces the HAL display, for example with a PNG recorder.
	Sink dial.Sink
}

// App is a fully wired dial.
type App struct {
	sched *dial.RenderScheduler
}

// New configures the peripherals behind h and returns a ready App. The
// counter interrupt is installed before counting starts. Peripheral setup
// errors are returned; a missing button, touch panel or display is only
// logged.
func New(h hal.HAL, cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	q := h.Quadrature()
	if q.Unit == nil {
		return nil, fmt.Errorf("app: no pulse counter: %w", hal.ErrNotImplemented)
	}
	cell := dial.NewCounterCell(h.Locker(), q.Unit)
	counter, err := dial.NewQuadratureCounter(cell, q.A, q.B, cfg.CounterConfig())
	if err != nil {
		return nil, err
	}
	acc := dial.NewOverflowAccumulator(cell, cfg.Step())
	acc.Install()
	counter.Start()

	resolver, err := dial.NewPositionResolver(cell, acc, cfg.Period(), cfg.Policy())
	if err != nil {
		return nil, err
	}

	button := h.Button()
	if button != nil {
		if err := button.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			log.Warn("button disabled", "pin", button.Name(), "err", err)
			button = nil
		}
	}

	var touch dial.TouchSource
	if bus := h.TouchBus(); bus != nil {
		touch = &touchPanel{dev: ft3267.New(bus)}
	} else {
		log.Info("no touch controller")
	}
	sampler := dial.NewInputSampler(button, touch)

	sink := opts.Sink
	if sink == nil {
		if d := h.Display(); d != nil {
			sink = canvas.New(d)
		} else {
			log.Warn("no display")
		}
	}

	cc := counter.Config()
	log.Info("dial ready",
		"build", buildinfo.Short(),
		"limits", fmt.Sprintf("[%d,%d]", cc.LowLimit, cc.HighLimit),
		"filter", cc.Filter,
		"period", cfg.Resolver.Period,
		"policy", cfg.Policy(),
	)

	return &App{
		sched: dial.NewRenderScheduler(resolver, sampler, dial.NewSceneComposer(cfg.SceneConfig()), sink, cfg.SchedulerConfig(), log),
	}, nil
}

// Step runs one loop iteration.
func (a *App) Step() error {
	_, err := a.sched.Step()
	return err
}

// Run loops at the configured cadence until ctx is done or a frame fails
// under the halt policy.
func (a *App) Run(ctx context.Context) error {
	err := a.sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Last returns the most recently drawn frame state.
func (a *App) Last() (dial.FrameState, bool) { return a.sched.Last() }

// Frames returns the number of frames drawn.
func (a *App) Frames() uint64 { return a.sched.Frames() }

// touchPanel adapts the FT3267 driver to dial.TouchSource.
type touchPanel struct {
	dev *ft3267.Device
}

func (t *touchPanel) Touches() [dial.MaxTouches]dial.TouchPoint {
	var out [dial.MaxTouches]dial.TouchPoint
	points, n := t.dev.Read()
	for i := 0; i < n && i < dial.MaxTouches; i++ {
		out[i] = dial.TouchPoint{X: points[i].X, Y: points[i].Y, Valid: true}
	}
	return out
}
