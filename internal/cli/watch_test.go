package cli

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerSerializesPerKey(t *testing.T) {
	var active, peak, runs atomic.Int32
	d := newDebouncer(5*time.Millisecond, func(string) {
		n := active.Add(1)
		for {
			m := peak.Load()
			if n <= m || peak.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
	})

	for range 5 {
		d.schedule("map.json")
		time.Sleep(10 * time.Millisecond)
	}
	d.stop()

	if n := active.Load(); n != 0 {
		t.Errorf("stop returned with %d runs in flight", n)
	}
	if n := peak.Load(); n != 1 {
		t.Errorf("%d runs overlapped for one file", n)
	}
	if runs.Load() == 0 {
		t.Error("nothing ran")
	}
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	var (
		mu   sync.Mutex
		runs = map[string]int{}
	)
	d := newDebouncer(20*time.Millisecond, func(key string) {
		mu.Lock()
		runs[key]++
		mu.Unlock()
	})

	for range 3 {
		d.schedule("a.json")
	}
	d.schedule("b.json")
	time.Sleep(100 * time.Millisecond)
	d.stop()

	mu.Lock()
	defer mu.Unlock()
	if runs["a.json"] != 1 || runs["b.json"] != 1 {
		t.Errorf("runs = %v, want one per file", runs)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(time.Hour, func(string) { runs.Add(1) })
	d.schedule("a.json")
	d.schedule("a.json")

	done := make(chan struct{})
	go func() {
		d.stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop waited on a pending timer")
	}
	if runs.Load() != 0 {
		t.Error("pending run fired after stop")
	}
}
