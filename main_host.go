//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dikkadev/prettyslog"

	"dial/app"
	"dial/hal"
	"dial/internal/config"
	"dial/internal/script"
	"dial/internal/snapshot"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults are used when empty).")
		headless   = flag.Bool("headless", false, "Run without a window.")
		ticks      = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = until the script ends or forever).")
		scriptPath = flag.String("script", "", "Input script to play (turn, press, release, touch, untouch, wait).")
		framesDir  = flag.String("frames", "", "Write every drawn frame as a PNG into this directory.")
		scale      = flag.Int("scale", 2, "Window scale factor.")
		logLevel   = flag.String("log-level", "", "Override logging.level (debug, info, warn, error).")
		frameDelay = flag.Int("frame-delay-ms", 0, "Override render.frame_delay_ms.")
		policy     = flag.String("policy", "", "Override resolver.policy (wrap or scale).")
		onError    = flag.String("on-error", "", "Override render.on_error (halt or skip).")
	)
	flag.Parse()

	if err := run(*configPath, *headless, *ticks, *scriptPath, *framesDir, *scale, overrides(logLevel, frameDelay, policy, onError)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// overrides keeps only the flags that were given on the command line.
func overrides(logLevel *string, frameDelay *int, policy, onError *string) config.FlagOverrides {
	var o config.FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			o.LogLevel = logLevel
		case "frame-delay-ms":
			o.FrameDelayMS = frameDelay
		case "policy":
			o.Policy = policy
		case "on-error":
			o.OnError = onError
		}
	})
	return o
}

func run(configPath string, headless bool, ticks uint64, scriptPath, framesDir string, scale int, o config.FlagOverrides) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	o.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	log := slog.New(prettyslog.NewPrettyslogHandler("dial", prettyslog.WithLevel(level)))

	var cmds []script.Command
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		cmds, err = script.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", scriptPath, err)
		}
	}

	var opts app.Options
	var rec *snapshot.Recorder
	if framesDir != "" {
		if rec, err = snapshot.New(framesDir, hal.HostSize, hal.HostSize); err != nil {
			return err
		}
		opts.Sink = rec
	}

	newApp := func(h hal.HAL) (func() error, error) {
		a, err := app.New(h, cfg, log, opts)
		if err != nil {
			return nil, err
		}
		return a.Step, nil
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			FrameDelay: cfg.FrameDelay(),
			Ticks:      ticks,
			Script:     cmds,
		})
	} else {
		tps := 30
		if ms := cfg.Render.FrameDelayMS; ms > 0 {
			tps = max(1, 1000/ms)
		}
		err = hal.RunWindow(newApp, hal.WindowConfig{TPS: tps, Scale: scale, Script: cmds})
	}
	if rec != nil {
		log.Info("frames written", "dir", framesDir, "count", rec.Frames())
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
