package leaktest

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

// fakeTB records failures so checks that are expected to fail don't fail the test
type fakeTB struct {
	testing.TB
	mu     sync.Mutex
	failed bool
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Errorf(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = true
}

func (f *fakeTB) Failed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed
}

func TestGoroutineChecker_NoLeak(t *testing.T) {
	defer NewGoroutineChecker(t).Check(0)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()
}

func TestGoroutineChecker_WaitsForExitingGoroutines(t *testing.T) {
	checker := NewGoroutineChecker(t)

	// Still running when Check starts, gone shortly after
	go time.Sleep(50 * time.Millisecond)

	checker.Check(0)
}

func TestGoroutineChecker_DetectsLeak(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	tb := &fakeTB{TB: t}
	checker := NewGoroutineChecker(tb)
	go func() { <-stop }()

	start := time.Now()
	checker.Check(0)

	if !tb.Failed() {
		t.Fatal("expected a leak to be reported")
	}
	if time.Since(start) < settleTimeout {
		t.Errorf("Check gave up after %v, want at least %v", time.Since(start), settleTimeout)
	}
}

func TestGoroutineChecker_Tolerance(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	tb := &fakeTB{TB: t}
	checker := NewGoroutineChecker(tb)
	go func() { <-stop }()

	checker.Check(1)
	if tb.Failed() {
		t.Fatal("one goroutine is within tolerance")
	}
}

func TestWaitForGoroutines(t *testing.T) {
	base := runtime.NumGoroutine()
	done := make(chan struct{})
	go func() {
		<-done
	}()
	close(done)

	WaitForGoroutines(t, base, time.Second)
}
