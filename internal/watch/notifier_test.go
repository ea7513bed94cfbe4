package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestNotifyDeliversToObservers(t *testing.T) {
	n := NewManual()
	n.Start()
	defer func() {
		if err := n.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	var a, b atomic.Int64
	n.Subscribe(func() { a.Add(1) })
	n.Subscribe(func() { b.Add(1) })

	n.Notify()

	if !waitFor(t, time.Second, func() bool { return a.Load() == 1 && b.Load() == 1 }) {
		t.Fatalf("observers saw (%d, %d) events, want (1, 1)", a.Load(), b.Load())
	}
}

func TestNotifyCoalescesBursts(t *testing.T) {
	n := NewManual()
	n.debounce = 50 * time.Millisecond
	n.Start()
	defer n.Close()

	var count atomic.Int64
	n.Subscribe(func() { count.Add(1) })

	for i := 0; i < 10; i++ {
		n.Notify()
	}

	if !waitFor(t, time.Second, func() bool { return count.Load() >= 1 }) {
		t.Fatal("no delivery after burst")
	}
	// Give a full debounce window for spurious extra deliveries to surface.
	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("burst of 10 signals delivered %d events, want 1", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := NewManual()
	n.Start()
	defer n.Close()

	var kept, dropped atomic.Int64
	keep := n.Subscribe(func() { kept.Add(1) })
	_ = keep
	sub := n.Subscribe(func() { dropped.Add(1) })
	sub.Unsubscribe()

	n.Notify()

	if !waitFor(t, time.Second, func() bool { return kept.Load() == 1 }) {
		t.Fatal("live observer not notified")
	}
	if got := dropped.Load(); got != 0 {
		t.Errorf("torn-down observer received %d events, want 0", got)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	n := NewManual()
	sub := n.Subscribe(func() {})
	sub.Unsubscribe()
	sub.Unsubscribe() // must not panic or corrupt state

	var nilSub *Subscription
	nilSub.Unsubscribe() // nil handles are tolerated
}

func TestFilesystemEventsTrigger(t *testing.T) {
	root := t.TempDir()
	n, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.debounce = 20 * time.Millisecond
	n.Start()
	defer n.Close()

	var count atomic.Int64
	n.Subscribe(func() { count.Add(1) })

	if err := os.WriteFile(filepath.Join(root, "IMG_0001.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return count.Load() >= 1 }) {
		t.Fatal("no notification after file creation")
	}
}
