// Package flagmu provides a priority mutex built from a high-priority
// intent flag and a condition wait in front of an ordinary data mutex.
//
// A high-priority acquisition raises the flag before contending for the
// data mutex; the flag stays raised until the matching unlock. A
// low-priority acquisition first waits for the flag to be down, then
// contends for the data mutex normally. The effect is that once a
// high-priority request is in flight, no new low-priority acquisition can
// begin until it completes, giving the high-priority caller a latency
// edge whenever it arrives while the resource is idle or held by the
// low-priority caller. A low-priority critical region already in progress
// is never preempted; the high-priority caller still waits out the
// current holder.
//
// Precondition: at most one concurrent caller per priority class. The
// wait-then-acquire sequence on each side is uncontended within a class
// only under that restriction.
package flagmu

import (
	"sync"

	"go.uber.org/atomic"
)

// Mutex is a priority mutex biased by a high-priority intent flag.
// Use New to create one.
type Mutex struct {
	// data is the lock on the resource itself.
	data sync.Mutex

	// entry guards the condition wait for low-priority entry.
	entry sync.Mutex

	// cond is signalled whenever the resource is released or the want
	// flag is lowered.
	cond *sync.Cond

	// want is true from the start of LockHigh until the matching
	// UnlockHigh. While true, LockLow does not begin a new acquisition.
	want atomic.Bool
}

// New returns a new unlocked Mutex.
func New() *Mutex {
	m := &Mutex{}
	m.cond = sync.NewCond(&m.entry)
	return m
}

// LockLow acquires the resource for the low-priority caller. It waits
// for any pending or active high-priority acquisition to finish before
// contending for the resource.
func (m *Mutex) LockLow() {
	m.entry.Lock()
	for m.want.Load() {
		m.cond.Wait()
	}
	m.entry.Unlock()
	m.data.Lock()
}

// UnlockLow releases the resource and wakes waiters.
func (m *Mutex) UnlockLow() {
	m.data.Unlock()
	m.cond.Broadcast()
}

// LockHigh raises the intent flag, then acquires the resource. The flag
// stays raised until UnlockHigh, holding back new low-priority entries
// for the whole pending-or-active span.
func (m *Mutex) LockHigh() {
	m.want.Store(true)
	m.data.Lock()
}

// UnlockHigh releases the resource, lowers the intent flag and wakes
// waiters.
func (m *Mutex) UnlockHigh() {
	m.data.Unlock()

	// The store happens under entry so a LockLow caller cannot check
	// the flag and then miss this wakeup.
	m.entry.Lock()
	m.want.Store(false)
	m.entry.Unlock()
	m.cond.Broadcast()
}
