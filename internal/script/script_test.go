package script

import (
	"reflect"
	"strings"
	"testing"

	"dial/internal/ft3267"
)

type recorder struct {
	log []string
}

func (r *recorder) Turn(edges int) { r.log = append(r.log, "turn "+itoa(edges)) }

func (r *recorder) SetPressed(p bool) {
	if p {
		r.log = append(r.log, "press")
	} else {
		r.log = append(r.log, "release")
	}
}

func (r *recorder) SetTouches(points []ft3267.Point) {
	var b strings.Builder
	b.WriteString("touch")
	for _, p := range points {
		b.WriteString(" " + itoa(int(p.X)) + "," + itoa(int(p.Y)))
	}
	r.log = append(r.log, b.String())
}

func itoa(n int) string {
	if n < 0 {
		return "-" + itoa(-n)
	}
	if n < 10 {
		return string(rune('0' + n))
	}
	return itoa(n/10) + string(rune('0'+n%10))
}

func TestParse(t *testing.T) {
	cmds, err := ParseString(`
# quarter turn then press
turn 32
press   # hold
touch 10 20 300 4000
wait 3
untouch
release
turn -5
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ops := make([]Op, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Op
	}
	want := []Op{OpTurn, OpPress, OpTouch, OpWait, OpUntouch, OpRelease, OpTurn}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	if cmds[0].N != 32 || cmds[0].Line != 3 {
		t.Fatalf("cmds[0] = %+v", cmds[0])
	}
	if !reflect.DeepEqual(cmds[2].Points, []ft3267.Point{{X: 10, Y: 20}, {X: 300, Y: 4000}}) {
		t.Fatalf("touch points = %+v", cmds[2].Points)
	}
	if cmds[6].N != -5 {
		t.Fatalf("turn N = %d, want -5", cmds[6].N)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"spin 3",
		"turn",
		"turn x",
		"press 1",
		"touch 1",
		"touch 1 2 3",
		"touch 5000 1",
		"wait -1",
		`turn "3`,
	} {
		if _, err := ParseString(src); err == nil {
			t.Fatalf("ParseString(%q) succeeded, want error", src)
		}
	}
	_, err := ParseString("turn 1\nbogus\n")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want line 2", err)
	}
}

func TestPlayerWaits(t *testing.T) {
	cmds, err := ParseString("turn 4\npress\nwait 2\nrelease\ntouch 10 20\nwait 1\nuntouch\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := NewPlayer(cmds)
	r := &recorder{}

	var perTick [][]string
	var finished []bool
	for i := 0; i < 6; i++ {
		before := len(r.log)
		finished = append(finished, p.Tick(r))
		perTick = append(perTick, append([]string(nil), r.log[before:]...))
	}

	want := [][]string{
		{"turn 4", "press"},
		{},
		{"release", "touch 10,20"},
		{"touch"},
		{},
		{},
	}
	for i := range want {
		if len(want[i]) == 0 && len(perTick[i]) == 0 {
			continue
		}
		if !reflect.DeepEqual(perTick[i], want[i]) {
			t.Fatalf("tick %d ran %q, want %q", i, perTick[i], want[i])
		}
	}
	if want := []bool{false, false, false, true, true, true}; !reflect.DeepEqual(finished, want) {
		t.Fatalf("finished = %v, want %v", finished, want)
	}
}

func TestPlayerEmpty(t *testing.T) {
	p := NewPlayer(nil)
	if !p.Tick(&recorder{}) {
		t.Fatal("empty script should finish immediately")
	}
}
