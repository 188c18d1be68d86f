package dial

import "testing"

func TestResolverAngle(t *testing.T) {
	r, err := NewPositionResolver(nil, nil, 128, WrapBeforeScale)
	if err != nil {
		t.Fatalf("NewPositionResolver: %v", err)
	}
	tcs := []struct {
		raw  int32
		want int
	}{
		{raw: 0, want: 0},
		{raw: 1, want: 2},
		{raw: 32, want: 90},
		{raw: 64, want: 180},
		{raw: 127, want: 357},
		{raw: 128, want: 0},
		{raw: 192, want: 180},
		{raw: -1, want: 357},
		{raw: -64, want: 180},
		{raw: -128, want: 0},
	}
	for _, tc := range tcs {
		if got := r.Angle(tc.raw); got != tc.want {
			t.Fatalf("Angle(%d) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestResolverPositionFloors(t *testing.T) {
	r, err := NewPositionResolver(nil, nil, 128, WrapBeforeScale)
	if err != nil {
		t.Fatalf("NewPositionResolver: %v", err)
	}
	if got := r.Position(-1); got != 127 {
		t.Fatalf("Position(-1) = %d, want 127", got)
	}
	if got := r.Position(-129); got != 127 {
		t.Fatalf("Position(-129) = %d, want 127", got)
	}
	if got := r.Position(300); got != 44 {
		t.Fatalf("Position(300) = %d, want 44", got)
	}
}

func TestResolverPoliciesAgreeUnderFlooring(t *testing.T) {
	for _, period := range []int32{7, 128, 400} {
		wrap, _ := NewPositionResolver(nil, nil, period, WrapBeforeScale)
		scale, _ := NewPositionResolver(nil, nil, period, ScaleThenWrap)
		for raw := int32(-1000); raw <= 1000; raw++ {
			w, s := wrap.Angle(raw), scale.Angle(raw)
			if s < 0 || s >= 360 {
				t.Fatalf("period %d: scale Angle(%d) = %d, out of range", period, raw, s)
			}
			if w != s {
				t.Fatalf("period %d: Angle(%d) wrap=%d scale=%d", period, raw, w, s)
			}
		}
	}
}

func TestNewPositionResolverRejectsPeriod(t *testing.T) {
	if _, err := NewPositionResolver(nil, nil, 0, WrapBeforeScale); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": WrapBeforeScale, "wrap": WrapBeforeScale, "scale": ScaleThenWrap} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
		if in != "" && got.String() != in {
			t.Fatalf("%v.String() = %q, want %q", got, got.String(), in)
		}
	}
	if _, err := ParsePolicy("round"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestResolveFollowsEncoder(t *testing.T) {
	r := newRig(t, 100, 128)

	r.enc.turn(64)
	if got := r.resolver.Resolve(); got != 180 {
		t.Fatalf("Resolve() after 64 edges = %d, want 180", got)
	}

	// One full revolution forward lands on the same angle.
	r.enc.turn(128)
	if got := r.resolver.Resolve(); got != 180 {
		t.Fatalf("Resolve() after a full turn = %d, want 180", got)
	}
	if got := r.resolver.Offset(); got != 100 {
		t.Fatalf("Offset() = %d, want 100", got)
	}

	r.enc.turn(-193)
	if got := r.resolver.Raw(); got != -1 {
		t.Fatalf("Raw() = %d, want -1", got)
	}
	if got := r.resolver.Resolve(); got != 357 {
		t.Fatalf("Resolve() at -1 = %d, want 357", got)
	}
}
