package attendance

import (
	"sync"
	"testing"
	"time"
)

func TestKeyLockSerialisesSameKey(t *testing.T) {
	locks := newKeyLock()
	unlock := locks.Lock("e1")

	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("e1")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestKeyLockIndependentKeys(t *testing.T) {
	locks := newKeyLock()
	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		locks.Lock("b")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("independent key blocked")
	}
}

func TestKeyLockReleasesEntries(t *testing.T) {
	locks := newKeyLock()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("e1")()
		}()
	}
	wg.Wait()
	if n := locks.size(); n != 0 {
		t.Fatalf("expected no entries, got %d", n)
	}
}
