//go:build !tinygo

package hal

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"dial/internal/script"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// FrameDelay is the pause after each step. Zero runs flat out.
	FrameDelay time.Duration
	// Ticks stops the run after that many steps. Zero runs until the script
	// finishes, or until ctx is done when there is no script.
	Ticks uint64
	// Script, if set, is played one tick at a time before each step.
	Script []script.Command
}

// RunHeadless runs the dial against the simulated board without a window.
// newApp wires the application and returns its per-tick step.
func RunHeadless(ctx context.Context, newApp func(HAL) (func() error, error), cfg HeadlessConfig) error {
	h := newHost()
	step, err := newApp(h)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return h.enc.run(gctx) })
	g.Go(func() error {
		defer cancel()
		return runHeadlessLoop(gctx, h, step, cfg)
	})
	return g.Wait()
}

func runHeadlessLoop(ctx context.Context, h *hostHAL, step func() error, cfg HeadlessConfig) error {
	var player *script.Player
	if len(cfg.Script) > 0 {
		player = script.NewPlayer(cfg.Script)
	}

	var tick uint64
	for {
		finished := true
		if player != nil {
			finished = player.Tick(h)
		}
		if err := h.enc.settle(ctx); err != nil {
			return err
		}
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}
		tick++

		switch {
		case cfg.Ticks > 0:
			if tick >= cfg.Ticks {
				return nil
			}
		case player != nil:
			if finished {
				return nil
			}
		}

		if cfg.FrameDelay > 0 {
			t := time.NewTimer(cfg.FrameDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
}
