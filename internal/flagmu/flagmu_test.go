package flagmu_test

import (
	"testing"
	"time"

	"github.com/neilotoole/priobench/internal/flagmu"
)

func TestLockUnlock(t *testing.T) {
	m := flagmu.New()
	m.LockLow()
	m.UnlockLow()
	m.LockHigh()
	m.UnlockHigh()
	m.LockLow()
	m.UnlockLow()
}

// TestIntentFlagHoldsBackNewLowEntries walks the scripted handoff: while
// a high-priority request is pending or active, a new low-priority
// acquisition must not begin. The flag is raised at the top of LockHigh
// and lowered only in UnlockHigh, so the low-priority caller is held
// back across the high-priority caller's whole pending-and-active span.
func TestIntentFlagHoldsBackNewLowEntries(t *testing.T) {
	m := flagmu.New()
	m.LockLow()

	highAcquired := make(chan struct{})
	highRelease := make(chan struct{})
	go func() {
		m.LockHigh()
		close(highAcquired)
		<-highRelease
		m.UnlockHigh()
	}()

	// Let the high-priority caller raise its flag and park. It must not
	// preempt the in-progress low-priority critical region.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-highAcquired:
		t.Fatal("LockHigh returned during the low-priority critical region")
	default:
	}

	m.UnlockLow()
	select {
	case <-highAcquired:
	case <-time.After(2 * time.Second):
		t.Fatal("LockHigh did not acquire after UnlockLow")
	}

	// The flag is still up: a fresh low-priority acquisition must wait
	// out the active high-priority holder.
	lowReacquired := make(chan struct{})
	go func() {
		m.LockLow()
		close(lowReacquired)
	}()
	time.Sleep(20 * time.Millisecond)
	select {
	case <-lowReacquired:
		t.Fatal("LockLow got in while the high-priority holder was active")
	default:
	}

	close(highRelease)
	select {
	case <-lowReacquired:
	case <-time.After(2 * time.Second):
		t.Fatal("LockLow did not acquire after UnlockHigh")
	}
	m.UnlockLow()
}

func hammer(lock, unlock func(), loops int, cdone chan bool) {
	for i := 0; i < loops; i++ {
		lock()
		unlock()
	}
	cdone <- true
}

func TestHammer(t *testing.T) {
	m := flagmu.New()
	c := make(chan bool)
	go hammer(m.LockLow, m.UnlockLow, 1000, c)
	go hammer(m.LockHigh, m.UnlockHigh, 1000, c)
	<-c
	<-c
}
