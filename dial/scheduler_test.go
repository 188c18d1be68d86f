package dial

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type angleVar struct{ v int }

func (a *angleVar) Resolve() int { return a.v }

func newTestScheduler(angles AngleSource, in InputSource, sink Sink, policy ErrorPolicy) *RenderScheduler {
	return NewRenderScheduler(angles, in, NewSceneComposer(testScene), sink, SchedulerConfig{OnError: policy}, nil)
}

func mustStep(t *testing.T, s *RenderScheduler) bool {
	t.Helper()
	drew, err := s.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return drew
}

func TestSchedulerDrawsFirstFrame(t *testing.T) {
	sink := newRecordingSink()
	s := newTestScheduler(fixedAngle(0), NewInputSampler(nil, nil), sink, HaltOnError)

	if !mustStep(t, s) {
		t.Fatal("first frame not drawn")
	}
	if st, ok := s.Last(); !ok || st != (FrameState{}) {
		t.Fatalf("Last() = %+v, %v", st, ok)
	}
}

func TestSchedulerIdempotentRedraw(t *testing.T) {
	sink := newRecordingSink()
	s := newTestScheduler(fixedAngle(90), NewInputSampler(&fakePin{level: true}, &fakeTouch{}), sink, HaltOnError)

	mustStep(t, s)
	for i := 0; i < 5; i++ {
		if mustStep(t, s) {
			t.Fatalf("tick %d redrew an unchanged frame", i)
		}
	}
	if sink.flushes != 1 || s.Frames() != 1 {
		t.Fatalf("flushes=%d frames=%d, want 1", sink.flushes, s.Frames())
	}
}

func TestSchedulerRedrawsOnEachChange(t *testing.T) {
	angle := &angleVar{v: 90}
	pin := &fakePin{level: true}
	touch := &fakeTouch{}
	sink := newRecordingSink()
	s := newTestScheduler(angle, NewInputSampler(pin, touch), sink, HaltOnError)
	mustStep(t, s)

	angle.v = 92
	if !mustStep(t, s) {
		t.Fatal("angle change not drawn")
	}

	pin.level = false
	sink.reset()
	if !mustStep(t, s) {
		t.Fatal("button change not drawn")
	}
	if got := sink.ops[1]; got != "circle 117,220 d=20" {
		t.Fatalf("pressed indicator = %q", got)
	}

	// A touch alone forces the whole frame, indicator included.
	touch.points[0] = TouchPoint{X: 10, Y: 20, Valid: true}
	sink.reset()
	if !mustStep(t, s) {
		t.Fatal("touch change not drawn")
	}
	want := []string{"clear 0,0,255", "circle 117,220 d=20", "circle 20,230 d=60", "flush"}
	if strings.Join(sink.ops, "|") != strings.Join(want, "|") {
		t.Fatalf("ops = %q, want %q", sink.ops, want)
	}
}

func TestSchedulerEndToEnd(t *testing.T) {
	r := newRig(t, 100, 128)
	sink := newRecordingSink()
	s := newTestScheduler(r.resolver, NewInputSampler(&fakePin{level: true}, nil), sink, HaltOnError)

	r.enc.turn(64)
	mustStep(t, s)
	if got := sink.ops[1]; got != "circle 20,120 d=40" {
		t.Fatalf("indicator = %q, want circle 20,120 d=40", got)
	}

	// A full revolution crosses a saturation but lands on the same angle.
	r.enc.turn(128)
	if mustStep(t, s) {
		t.Fatal("full revolution redrew an identical frame")
	}
}

func TestSchedulerHaltPolicy(t *testing.T) {
	sink := newRecordingSink()
	sink.failOn = "flush"
	s := newTestScheduler(fixedAngle(0), NewInputSampler(nil, nil), sink, HaltOnError)

	_, err := s.Step()
	if !errors.Is(err, errSink) {
		t.Fatalf("err = %v, want errSink", err)
	}
	if _, ok := s.Last(); ok {
		t.Fatal("failed frame recorded as drawn")
	}

	err = s.Run(context.Background())
	if !errors.Is(err, errSink) {
		t.Fatalf("Run err = %v, want errSink", err)
	}
}

func TestSchedulerSkipPolicyRetries(t *testing.T) {
	sink := newRecordingSink()
	sink.failOn = "flush"
	s := newTestScheduler(fixedAngle(0), NewInputSampler(nil, nil), sink, SkipOnError)

	if drew := mustStep(t, s); drew {
		t.Fatal("failed frame reported as drawn")
	}
	sink.failOn = ""
	if !mustStep(t, s) {
		t.Fatal("skipped frame not retried on the next tick")
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	sink := newRecordingSink()
	angle := &angleVar{}
	s := newTestScheduler(angle, NewInputSampler(nil, nil), sink, HaltOnError)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks := 0
	var delays []time.Duration
	s.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		ticks++
		angle.v = ticks * 10
		if ticks == 3 {
			cancel()
		}
		return ctx.Err()
	}

	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
	if s.Frames() != 3 {
		t.Fatalf("Frames() = %d, want 3", s.Frames())
	}
	for _, d := range delays {
		if d != DefaultFrameDelay {
			t.Fatalf("delay = %v, want %v", d, DefaultFrameDelay)
		}
	}
}

func TestSchedulerTracesChanges(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRig(t, 4, 128)
	s := NewRenderScheduler(r.resolver, NewInputSampler(nil, nil), NewSceneComposer(testScene), newRecordingSink(), SchedulerConfig{}, log)

	mustStep(t, s)
	mustStep(t, s)
	r.enc.turn(5)
	mustStep(t, s)

	out := buf.String()
	if n := strings.Count(out, "msg=value"); n != 2 {
		t.Fatalf("value lines = %d, want 2\n%s", n, out)
	}
	if n := strings.Count(out, "msg=offset"); n != 2 {
		t.Fatalf("offset lines = %d, want 2\n%s", n, out)
	}
	if !strings.Contains(out, "msg=offset value=4") {
		t.Fatalf("missing offset after saturation\n%s", out)
	}
}

func TestParseErrorPolicy(t *testing.T) {
	for in, want := range map[string]ErrorPolicy{"": HaltOnError, "halt": HaltOnError, "skip": SkipOnError} {
		got, err := ParseErrorPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseErrorPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseErrorPolicy("retry"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
