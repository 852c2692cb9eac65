// Package priobench studies priority-differentiated mutual exclusion:
// lock designs that let a high-priority caller acquire a shared resource
// with bounded latency even while a low-priority caller repeatedly
// contends for the same resource.
//
// The scenario is a pair of workers sharing one resource. The low-priority
// worker is a "trainer": a tight loop that needs the resource for its
// entire loop body. The high-priority worker is a "server": it needs the
// resource only briefly, but when it asks, it wants it fast.
//
// An ordinary sync.Mutex serves both callers in whatever order the runtime
// happens to pick, so the server's acquisition latency grows with the
// trainer's hold time. The question this package answers numerically is
// whether (and at what cost to the trainer) a lock design can do better.
//
// Four designs implement the PriorityMutex contract:
//
//   - plainmu: a single mutex, no differentiation. The baseline.
//   - gatemu: a gate mutex in front of the data mutex, with both priority
//     classes taking the identical path. A negative control: it
//     demonstrates by measurement that a second lock does not by itself
//     yield differentiation.
//   - flagmu: a high-priority intent flag plus a condition wait. New
//     low-priority entries are held back while a high-priority request is
//     pending or active.
//   - prefmu: writer-preference discipline via "held" and "pending"
//     booleans. A pending high-priority request closes the door to new
//     low-priority entrants before the resource is even free.
//
// The Test harness drives one trainer and one server against a single
// PriorityMutex instance for a fixed wall-clock duration and reports the
// trainer's accumulated hold time and the server's accumulated acquisition
// latency. Sweep runs the harness across a grid of workload shapes and
// strategies and tallies which design wins on each axis.
package priobench

import "time"

// PriorityMutex is a mutual exclusion lock with two priority classes.
// The Low methods are used by the low-priority caller, the High methods
// by the high-priority caller; each class uses its lock/unlock methods
// in strict pairs.
//
// The contract guarantees mutual exclusion: no two critical regions,
// regardless of class, execute concurrently. It does not mandate FIFO
// order; each implementation trades fairness for throughput differently.
//
// Precondition: at most one concurrent caller per priority class. Several
// implementations keep per-class state that is uncontended only under
// this restriction; they are not general N-writer locks. Reentrant
// locking is not supported.
type PriorityMutex interface {
	// LockLow acquires the resource for the low-priority caller,
	// blocking until it is available.
	LockLow()

	// UnlockLow releases a resource acquired via LockLow.
	UnlockLow()

	// LockHigh acquires the resource for the high-priority caller,
	// blocking until it is available. Implementations other than the
	// baselines bias toward completing this call quickly, but never by
	// preempting a critical region already in progress.
	LockHigh()

	// UnlockHigh releases a resource acquired via LockHigh.
	UnlockHigh()
}

// Workload is the shape of one contention run: how long the low-priority
// worker holds the resource per iteration, how long the high-priority
// worker holds it, and how long the high-priority worker idles between
// requests. A Workload is immutable once handed to NewTest.
type Workload struct {
	// LowWork is the simulated work duration inside the low-priority
	// worker's critical region.
	LowWork time.Duration

	// HighWork is the simulated work duration inside the high-priority
	// worker's critical region.
	HighWork time.Duration

	// HighSleep is how long the high-priority worker idles before each
	// acquisition attempt.
	HighSleep time.Duration
}
