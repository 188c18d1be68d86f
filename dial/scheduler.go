package dial

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultFrameDelay paces the loop at roughly 30 frames per second.
const DefaultFrameDelay = 32 * time.Millisecond

// FrameState is the unit of change detection.
type FrameState struct {
	Angle   int
	Pressed bool
	Touches [MaxTouches]TouchPoint
}

// ErrorPolicy decides what a failed frame does to the loop.
type ErrorPolicy uint8

const (
	// HaltOnError stops the loop on the first draw error.
	HaltOnError ErrorPolicy = iota
	// SkipOnError abandons the frame and retries on the next tick.
	SkipOnError
)

func (p ErrorPolicy) String() string {
	switch p {
	case HaltOnError:
		return "halt"
	case SkipOnError:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseErrorPolicy maps a config name to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "", "halt":
		return HaltOnError, nil
	case "skip":
		return SkipOnError, nil
	default:
		return 0, fmt.Errorf("dial: unknown frame error policy %q (must be halt or skip)", s)
	}
}

// AngleSource resolves the current encoder angle.
type AngleSource interface {
	Resolve() int
}

// InputSource samples the button and touch state.
type InputSource interface {
	Sample() InputSnapshot
}

type offsetSource interface {
	Offset() int32
}

// SchedulerConfig paces the loop.
type SchedulerConfig struct {
	FrameDelay time.Duration
	OnError    ErrorPolicy
}

// RenderScheduler is the foreground loop. Each iteration resolves the angle,
// samples the inputs and redraws the whole frame only if the combined state
// differs from the last frame drawn.
type RenderScheduler struct {
	angles   AngleSource
	inputs   InputSource
	composer *SceneComposer
	sink     Sink
	cfg      SchedulerConfig
	log      *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error

	last   FrameState
	primed bool
	frames uint64

	lastAngle  int
	lastOffset int32
	traced     bool
}

// NewRenderScheduler wires the loop. A nil logger discards diagnostics.
func NewRenderScheduler(angles AngleSource, inputs InputSource, composer *SceneComposer, sink Sink, cfg SchedulerConfig, log *slog.Logger) *RenderScheduler {
	if cfg.FrameDelay <= 0 {
		cfg.FrameDelay = DefaultFrameDelay
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RenderScheduler{
		angles:   angles,
		inputs:   inputs,
		composer: composer,
		sink:     sink,
		cfg:      cfg,
		log:      log,
		sleep:    sleepContext,
	}
}

// Step runs one iteration and reports whether a frame was drawn.
func (s *RenderScheduler) Step() (bool, error) {
	angle := s.angles.Resolve()
	in := s.inputs.Sample()
	st := FrameState{Angle: angle, Pressed: in.Pressed, Touches: in.Touches}
	s.trace(st)

	if s.primed && st == s.last {
		return false, nil
	}

	if err := s.composer.Compose(s.sink, st); err != nil {
		if s.cfg.OnError == SkipOnError {
			s.log.Error("frame skipped", "err", err)
			return false, nil
		}
		return false, fmt.Errorf("dial: draw frame: %w", err)
	}

	s.last = st
	s.primed = true
	s.frames++
	return true, nil
}

// Run loops until ctx is done or a frame fails under HaltOnError. The delay
// follows each iteration, so the cadence drifts by the render time.
func (s *RenderScheduler) Run(ctx context.Context) error {
	s.log.Info("render loop started", "frame_delay", s.cfg.FrameDelay, "on_error", s.cfg.OnError)
	for {
		if _, err := s.Step(); err != nil {
			s.log.Error("render loop halted", "err", err, "frames", s.frames)
			return err
		}
		if err := s.sleep(ctx, s.cfg.FrameDelay); err != nil {
			return err
		}
	}
}

// Last returns the most recently drawn state.
func (s *RenderScheduler) Last() (FrameState, bool) { return s.last, s.primed }

// Frames returns the number of frames drawn.
func (s *RenderScheduler) Frames() uint64 { return s.frames }

func (s *RenderScheduler) trace(st FrameState) {
	if !s.traced || st.Angle != s.lastAngle {
		s.log.Debug("value", "angle", st.Angle)
		s.lastAngle = st.Angle
	}
	if o, ok := s.angles.(offsetSource); ok {
		if off := o.Offset(); !s.traced || off != s.lastOffset {
			s.log.Debug("offset", "value", off)
			s.lastOffset = off
		}
	}
	s.traced = true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
