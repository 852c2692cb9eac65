// Package plainmu provides the baseline priority mutex: a single
// sync.Mutex shared by both priority classes. LockLow and LockHigh are
// the identical operation, so there is no priority differentiation and
// no starvation protection for either side. Every other strategy is
// judged against this one: a design that cannot beat plainmu on
// high-priority latency without heavily regressing low-priority
// throughput is not a worthwhile trade.
package plainmu

import "sync"

// Mutex is a priority mutex that ignores priority.
// The zero value is an unlocked mutex.
type Mutex struct {
	mu sync.Mutex
}

// LockLow acquires the resource for the low-priority caller.
func (m *Mutex) LockLow() {
	m.mu.Lock()
}

// UnlockLow releases the resource.
// It is a run-time error if the mutex is not locked.
func (m *Mutex) UnlockLow() {
	m.mu.Unlock()
}

// LockHigh acquires the resource for the high-priority caller. It is
// indistinguishable from LockLow.
func (m *Mutex) LockHigh() {
	m.mu.Lock()
}

// UnlockHigh releases the resource.
// It is a run-time error if the mutex is not locked.
func (m *Mutex) UnlockHigh() {
	m.mu.Unlock()
}
