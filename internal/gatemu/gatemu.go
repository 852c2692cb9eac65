// Package gatemu provides a two-mutex priority mutex: a small "gate"
// mutex serializing entry in front of the actual data mutex. Both
// priority classes run the identical sequence — acquire gate, acquire
// data, release gate — so a high-priority request queued at the gate is
// served in arrival order exactly like a low-priority one.
//
// This symmetry is deliberate. The package exists as a negative control:
// it quantifies the overhead of the extra lock layer and demonstrates by
// measurement that a two-lock structure does not by itself yield priority
// differentiation. Behaviorally it is plainmu plus fixed overhead.
package gatemu

import "sync"

// Mutex is a priority mutex built from a gate mutex and a data mutex.
// The zero value is an unlocked mutex.
type Mutex struct {
	// gate serializes lock attempts from both classes.
	gate sync.Mutex

	// data is the lock on the resource itself. It is the only mutex
	// held for the duration of a critical region.
	data sync.Mutex
}

// LockLow acquires the resource for the low-priority caller.
func (m *Mutex) LockLow() {
	m.gate.Lock()
	m.data.Lock()
	m.gate.Unlock()
}

// UnlockLow releases the resource.
func (m *Mutex) UnlockLow() {
	m.data.Unlock()
}

// LockHigh acquires the resource for the high-priority caller. The
// sequence is identical to LockLow; see the package doc.
func (m *Mutex) LockHigh() {
	m.gate.Lock()
	m.data.Lock()
	m.gate.Unlock()
}

// UnlockHigh releases the resource.
func (m *Mutex) UnlockHigh() {
	m.data.Unlock()
}
