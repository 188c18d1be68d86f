// Package script drives simulated dial hardware from a small line-oriented
// command language, one command per line:
//
//	turn N            move the encoder N edges (negative turns left)
//	press | release   hold or let go of the button
//	touch X Y [X Y]   put one or two fingers on the panel
//	untouch           lift all fingers
//	wait N            let N loop ticks pass
//
// Blank lines and text after '#' are ignored.
package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"dial/internal/ft3267"
)

// Op is a command kind.
type Op uint8

const (
	OpTurn Op = iota + 1
	OpPress
	OpRelease
	OpTouch
	OpUntouch
	OpWait
)

// Command is one parsed line.
type Command struct {
	Op     Op
	N      int
	Points []ft3267.Point
	Line   int
}

// Target receives script actions.
type Target interface {
	Turn(edges int)
	SetPressed(pressed bool)
	SetTouches(points []ft3267.Point)
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		args, err := shlex.Split(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("script: line %d: %w", line, err)
		}
		if len(args) == 0 {
			continue
		}
		cmd, err := parseCommand(args)
		if err != nil {
			return nil, fmt.Errorf("script: line %d: %w", line, err)
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return cmds, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

func parseCommand(args []string) (Command, error) {
	name, rest := args[0], args[1:]
	switch name {
	case "turn":
		n, err := oneInt(name, rest)
		return Command{Op: OpTurn, N: n}, err
	case "wait":
		n, err := oneInt(name, rest)
		if err == nil && n < 0 {
			err = fmt.Errorf("wait: negative tick count %d", n)
		}
		return Command{Op: OpWait, N: n}, err
	case "press":
		return Command{Op: OpPress}, noArgs(name, rest)
	case "release":
		return Command{Op: OpRelease}, noArgs(name, rest)
	case "untouch":
		return Command{Op: OpUntouch}, noArgs(name, rest)
	case "touch":
		if len(rest) != 2 && len(rest) != 2*ft3267.MaxPoints {
			return Command{}, fmt.Errorf("touch: want 2 or 4 coordinates, got %d", len(rest))
		}
		cmd := Command{Op: OpTouch}
		for i := 0; i < len(rest); i += 2 {
			x, err := coord(rest[i])
			if err != nil {
				return Command{}, fmt.Errorf("touch: %w", err)
			}
			y, err := coord(rest[i+1])
			if err != nil {
				return Command{}, fmt.Errorf("touch: %w", err)
			}
			cmd.Points = append(cmd.Points, ft3267.Point{X: x, Y: y})
		}
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", name)
	}
}

func oneInt(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: want 1 argument, got %d", name, len(args))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func noArgs(name string, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%s: takes no arguments", name)
	}
	return nil
}

// coord parses a 12-bit controller coordinate.
func coord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 12)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// Player applies commands to a target one loop tick at a time.
type Player struct {
	cmds []Command
	pc   int
	wait int
}

func NewPlayer(cmds []Command) *Player {
	return &Player{cmds: cmds}
}

// Tick runs commands until a wait is pending or the script ends, and
// reports whether the script has finished.
func (p *Player) Tick(t Target) bool {
	if p.wait > 0 {
		p.wait--
		return false
	}
	for p.pc < len(p.cmds) {
		cmd := p.cmds[p.pc]
		p.pc++
		switch cmd.Op {
		case OpTurn:
			t.Turn(cmd.N)
		case OpPress:
			t.SetPressed(true)
		case OpRelease:
			t.SetPressed(false)
		case OpTouch:
			t.SetTouches(cmd.Points)
		case OpUntouch:
			t.SetTouches(nil)
		case OpWait:
			if cmd.N > 0 {
				p.wait = cmd.N - 1
				return false
			}
		}
	}
	return true
}
