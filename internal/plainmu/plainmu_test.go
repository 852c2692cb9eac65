package plainmu_test

import (
	"testing"
	"time"

	"github.com/neilotoole/priobench/internal/plainmu"
)

func TestBothClassesShareOneLock(t *testing.T) {
	m := &plainmu.Mutex{}
	m.LockLow()

	acquired := make(chan struct{})
	go func() {
		m.LockHigh()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("LockHigh succeeded while the low-priority holder was active")
	case <-time.After(20 * time.Millisecond):
	}

	m.UnlockLow()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("LockHigh did not acquire after UnlockLow")
	}
	m.UnlockHigh()
}

// hammer loops lock/unlock for one priority class.
// Adapted from stdlib sync/mutex_test.go HammerMutex.
func hammer(lock, unlock func(), loops int, cdone chan bool) {
	for i := 0; i < loops; i++ {
		lock()
		unlock()
	}
	cdone <- true
}

func TestHammer(t *testing.T) {
	m := &plainmu.Mutex{}
	c := make(chan bool)
	go hammer(m.LockLow, m.UnlockLow, 1000, c)
	go hammer(m.LockHigh, m.UnlockHigh, 1000, c)
	<-c
	<-c
}
