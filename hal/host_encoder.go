//go:build !tinygo

package hal

import (
	"context"
	"runtime"
	"sync/atomic"

	"dial/internal/ring"
)

const (
	encoderA PulseSource = 0
	encoderB PulseSource = 1

	// edgeSpacingNS keeps simulated edges well clear of the glitch filter.
	edgeSpacingNS = 50_000
	encoderQueue  = 256
)

// grayCode is the (A, B) sequence for a clockwise turn: B leads A.
var grayCode = [4][2]bool{{false, false}, {false, true}, {true, true}, {true, false}}

type encoderEdge struct {
	src   PulseSource
	level bool
}

// hostEncoder turns simulated rotation into edges on a software pulse unit.
// turn is the only producer; run is the only consumer and plays the part of
// the counter hardware, so limit interrupts fire on its goroutine.
type hostEncoder struct {
	unit  *SoftPulseUnit
	q     *ring.Queue[encoderEdge]
	wake  chan struct{}
	state int
	now   uint64
	sent  atomic.Uint64
	done  atomic.Uint64
}

func newHostEncoder() *hostEncoder {
	return &hostEncoder{
		unit: NewSoftPulseUnit(nil),
		q:    ring.New[encoderEdge](encoderQueue),
		wake: make(chan struct{}, 1),
	}
}

// turn queues edges; negative values turn counter-clockwise. It blocks while
// the queue is full, so run must be active.
func (e *hostEncoder) turn(edges int) {
	dir := 1
	if edges < 0 {
		dir, edges = -1, -edges
	}
	for i := 0; i < edges; i++ {
		prev := grayCode[e.state]
		e.state = (e.state + dir + 4) % 4
		next := grayCode[e.state]

		ed := encoderEdge{src: encoderB, level: next[1]}
		if prev[0] != next[0] {
			ed = encoderEdge{src: encoderA, level: next[0]}
		}
		e.q.Send(ed)
		e.sent.Add(1)
		e.notify()
	}
}

func (e *hostEncoder) notify() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// run applies queued edges until ctx is done.
func (e *hostEncoder) run(ctx context.Context) error {
	for {
		e.q.Drain(e.apply)
		select {
		case <-ctx.Done():
			return nil
		case <-e.wake:
		}
	}
}

func (e *hostEncoder) apply(ed encoderEdge) {
	e.now += edgeSpacingNS
	e.unit.Edge(ed.src, ed.level, e.now)
	e.done.Add(1)
}

// settle waits until every queued edge has been applied.
func (e *hostEncoder) settle(ctx context.Context) error {
	for e.done.Load() < e.sent.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}
