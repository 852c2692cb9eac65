// Package prefmu provides a writer-preference priority mutex: two
// booleans — "resource currently held" and "high-priority request
// pending" — guarded by one mutex and a condition variable, closely
// analogous to a write-preferring reader/writer lock.
//
// A high-priority acquisition publishes its pending bit immediately,
// before the resource itself is free, so every future low-priority
// acquisition is blocked the instant a high-priority need appears. This
// is stronger than flagmu, whose flag only holds back low-priority
// entries while the high-priority caller is itself contending for the
// underlying lock. An in-progress low-priority critical region is still
// never preempted.
//
// Of the designs in this module, prefmu is expected to give the lowest
// high-priority latency at the cost of the most low-priority throughput
// under heavy high-priority traffic; the contention harness exists to
// put numbers on that trade.
//
// Precondition: at most one concurrent caller per priority class. With N
// callers per class the booleans would have to become counters or
// queues; that is a different design, not a parameter tweak.
package prefmu

import "sync"

// Mutex is a writer-preference priority mutex. Use New to create one.
type Mutex struct {
	// mu guards held and pending.
	mu sync.Mutex

	// cond is signalled on every state change that could unblock a
	// waiter.
	cond *sync.Cond

	// held reports whether some caller currently has the resource.
	held bool

	// pending reports whether a high-priority acquisition is waiting.
	// While pending, LockLow does not proceed even if held is false.
	pending bool
}

// New returns a new unlocked Mutex.
func New() *Mutex {
	m := &Mutex{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// LockLow acquires the resource for the low-priority caller. It waits
// until the resource is free and no high-priority request is pending.
func (m *Mutex) LockLow() {
	m.mu.Lock()
	for m.held || m.pending {
		m.cond.Wait()
	}
	m.held = true
	m.mu.Unlock()
}

// UnlockLow releases the resource and wakes waiters.
// It is a run-time error if the caller does not hold the resource.
func (m *Mutex) UnlockLow() {
	m.mu.Lock()
	if !m.held {
		m.mu.Unlock()
		panic("prefmu: unlock of unlocked mutex")
	}
	m.held = false
	m.mu.Unlock()
	m.cond.Broadcast()
}

// LockHigh acquires the resource for the high-priority caller. The
// pending bit is published immediately, closing the door to new
// low-priority entrants before the resource is free; the caller then
// waits only for the current holder, if any, to finish.
func (m *Mutex) LockHigh() {
	m.mu.Lock()
	m.pending = true
	for m.held {
		m.cond.Wait()
	}
	m.held = true
	m.mu.Unlock()
}

// UnlockHigh releases the resource, clears the pending bit and wakes
// waiters.
// It is a run-time error if the caller does not hold the resource.
func (m *Mutex) UnlockHigh() {
	m.mu.Lock()
	if !m.held {
		m.mu.Unlock()
		panic("prefmu: unlock of unlocked mutex")
	}
	m.held = false
	m.pending = false
	m.mu.Unlock()
	m.cond.Broadcast()
}
