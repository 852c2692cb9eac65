package priobench

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neilotoole/sq/libsq/core/lg"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// ErrDidNotTerminate is returned by Test.Run when Test.Timeout is set and
// a worker fails to drain before the grace period expires. This almost
// always means the strategy under test has deadlocked or permanently
// starved one of the workers.
var ErrDidNotTerminate = errors.New("contention test did not terminate")

// State is the lifecycle state of a Test.
type State int32

const (
	// StateIdle is the state of a Test before Run is invoked.
	StateIdle State = iota

	// StateRunning means the workers are looping.
	StateRunning

	// StateDraining means the stop flag has been raised and the
	// controller is waiting for the workers to observe it and exit.
	StateDraining

	// StateDone means both workers have joined.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result is the output of one contention run.
type Result struct {
	// LowWorkNanos is the cumulative time, in nanoseconds, that the
	// low-priority worker held the resource and performed simulated work.
	LowWorkNanos float64

	// HighLatencyNanos is the cumulative time, in nanoseconds, that the
	// high-priority worker spent waiting inside LockHigh. Time spent
	// working or idling is not included.
	HighLatencyNanos float64

	// LowIters and HighIters count completed loop iterations per worker.
	// They distinguish "zero because starved" from "zero because the
	// worker never got scheduled".
	LowIters  int64
	HighIters int64
}

// Test drives one low-priority worker and one high-priority worker
// against a single PriorityMutex for a fixed wall-clock duration.
//
// The low-priority worker models a trainer: it needs the resource across
// its whole loop body, so it locks, performs its simulated work, and
// unlocks, accumulating the time it held the resource. The high-priority
// worker models a server: it idles, then wants the resource briefly and
// urgently, accumulating only the time each acquisition took.
//
// A Test is single-use: construct with NewTest, call Run once, read the
// Result.
type Test struct {
	log    *slog.Logger
	mu     PriorityMutex
	shape  Workload
	runFor time.Duration

	// Timeout, if positive, bounds how long Run waits for the workers to
	// drain after the stop flag is raised. On expiry Run abandons the
	// workers and returns ErrDidNotTerminate. When zero, Run waits
	// forever: a deadlocked strategy hangs the run, which is itself a
	// diagnostic signal. Set before calling Run.
	Timeout time.Duration

	// stop is the run-control flag: written once (false → true) by the
	// controller, polled by both workers at the top of their loops.
	stop atomic.Bool

	state atomic.Int32

	lowWorkNanos     int64
	highLatencyNanos int64
	lowIters         int64
	highIters        int64
}

// NewTest returns a Test that will drive mu under the given workload
// shape for runFor of wall-clock time. A nil log discards. An error is
// returned if mu is nil or any duration is non-positive.
func NewTest(log *slog.Logger, mu PriorityMutex, shape Workload, runFor time.Duration) (*Test, error) {
	if log == nil {
		log = lg.Discard()
	}
	if mu == nil {
		return nil, errors.New("contention test: mutex is nil")
	}
	if err := shape.validate(); err != nil {
		return nil, err
	}
	if runFor <= 0 {
		return nil, fmt.Errorf("contention test: run duration must be positive, got %s", runFor)
	}

	t := &Test{log: log, mu: mu, shape: shape, runFor: runFor}
	t.state.Store(int32(StateIdle))
	return t, nil
}

// State returns the Test's lifecycle state.
func (t *Test) State() State {
	return State(t.state.Load())
}

// Run executes the contention run and returns the accumulated totals.
// It blocks for the Test's run duration plus however long the workers
// take to finish in-flight critical regions (bounded by Timeout, if set).
// Run returns an error if called more than once.
func (t *Test) Run() (Result, error) {
	if !t.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return Result{}, fmt.Errorf("contention test: Run already invoked (state %s)", t.State())
	}

	t.log.Debug("contention run starting",
		"shape", t.shape.String(), "run_for", t.runFor)

	g := &errgroup.Group{}
	g.Go(func() error {
		t.lowWorker()
		return nil
	})
	g.Go(func() error {
		t.highWorker()
		return nil
	})

	time.Sleep(t.runFor)
	t.stop.Store(true)
	t.state.Store(int32(StateDraining))

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	if t.Timeout > 0 {
		select {
		case <-done:
		case <-time.After(t.Timeout):
			t.log.Warn("contention run did not drain",
				"shape", t.shape.String(), "grace", t.Timeout)
			return Result{}, fmt.Errorf("%w within %s of stop signal",
				ErrDidNotTerminate, t.Timeout)
		}
	} else {
		<-done
	}
	t.state.Store(int32(StateDone))

	res := Result{
		LowWorkNanos:     float64(t.lowWorkNanos),
		HighLatencyNanos: float64(t.highLatencyNanos),
		LowIters:         t.lowIters,
		HighIters:        t.highIters,
	}
	t.log.Debug("contention run complete",
		"shape", t.shape.String(),
		"low_work_ns", res.LowWorkNanos,
		"high_latency_ns", res.HighLatencyNanos,
		"low_iters", res.LowIters,
		"high_iters", res.HighIters)
	return res, nil
}

// lowWorker is the trainer loop: hold the resource for the whole body.
func (t *Test) lowWorker() {
	var workNanos, iters int64
	for !t.stop.Load() {
		t.mu.LockLow()

		start := time.Now()
		time.Sleep(t.shape.LowWork)
		workNanos += time.Since(start).Nanoseconds()

		t.mu.UnlockLow()
		iters++
	}

	// Published to the controller via the errgroup join.
	t.lowWorkNanos = workNanos
	t.lowIters = iters
}

// highWorker is the server loop: idle, then want the resource urgently.
// Only the acquisition wait counts toward the accumulator.
func (t *Test) highWorker() {
	var latencyNanos, iters int64
	for !t.stop.Load() {
		time.Sleep(t.shape.HighSleep)

		start := time.Now()
		t.mu.LockHigh()
		latencyNanos += time.Since(start).Nanoseconds()

		time.Sleep(t.shape.HighWork)
		t.mu.UnlockHigh()
		iters++
	}

	t.highLatencyNanos = latencyNanos
	t.highIters = iters
}

// String returns the shape in "low=1ms high=10µs sleep=100µs" form.
func (w Workload) String() string {
	return fmt.Sprintf("low=%s high=%s sleep=%s", w.LowWork, w.HighWork, w.HighSleep)
}

// validate rejects degenerate shapes.
func (w Workload) validate() error {
	if w.LowWork <= 0 {
		return fmt.Errorf("workload: low-priority work duration must be positive, got %s", w.LowWork)
	}
	if w.HighWork <= 0 {
		return fmt.Errorf("workload: high-priority work duration must be positive, got %s", w.HighWork)
	}
	if w.HighSleep <= 0 {
		return fmt.Errorf("workload: high-priority sleep duration must be positive, got %s", w.HighSleep)
	}
	return nil
}
