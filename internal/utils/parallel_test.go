package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunParallel_ErrorsInTaskOrder(t *testing.T) {
	boom := errors.New("boom")
	errs := RunParallel(
		func() error { time.Sleep(10 * time.Millisecond); return nil },
		func() error { return boom },
		func() error { panic("bad task") },
	)

	if len(errs) != 3 {
		t.Fatalf("expected 3 results, got %d", len(errs))
	}
	if errs[0] != nil {
		t.Errorf("expected first task to succeed, got %v", errs[0])
	}
	if !errors.Is(errs[1], boom) {
		t.Errorf("expected boom, got %v", errs[1])
	}
	if errs[2] == nil {
		t.Error("expected panic to be reported as an error")
	}
}

func TestWorkerPool_RunsTasks(t *testing.T) {
	pool := NewWorkerPool(2, 10, nil)

	var n int32
	for i := 0; i < 5; i++ {
		if !pool.TrySubmit(func() { atomic.AddInt32(&n, 1) }) {
			t.Fatalf("submit %d refused", i)
		}
	}
	pool.Close()

	if got := atomic.LoadInt32(&n); got != 5 {
		t.Errorf("expected 5 tasks to run, got %d", got)
	}
}

func TestWorkerPool_TrySubmitNeverBlocks(t *testing.T) {
	pool := NewWorkerPool(1, 1, nil)
	release := make(chan struct{})
	started := make(chan struct{})

	pool.TrySubmit(func() {
		close(started)
		<-release
	})
	<-started

	if !pool.TrySubmit(func() {}) {
		t.Fatal("expected the queue slot to accept one task")
	}

	done := make(chan bool)
	go func() { done <- pool.TrySubmit(func() {}) }()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected a full queue to refuse the task")
		}
	case <-time.After(time.Second):
		t.Fatal("TrySubmit blocked on a full queue")
	}

	close(release)
	pool.Close()
}

func TestWorkerPool_RecoversPanics(t *testing.T) {
	var recovered atomic.Value
	pool := NewWorkerPool(1, 2, func(r interface{}) { recovered.Store(r) })

	pool.TrySubmit(func() { panic("mail exploded") })
	var ran int32
	pool.TrySubmit(func() { atomic.StoreInt32(&ran, 1) })
	pool.Close()

	if recovered.Load() != "mail exploded" {
		t.Errorf("expected panic value to be reported, got %v", recovered.Load())
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Error("expected the worker to survive a panicking task")
	}
}

func TestWorkerPool_ClosedRefuses(t *testing.T) {
	pool := NewWorkerPool(1, 1, nil)
	if pool.Closed() {
		t.Fatal("new pool reports closed")
	}
	pool.Close()
	pool.Close()

	if !pool.Closed() {
		t.Error("expected Closed after Close")
	}

	if pool.TrySubmit(func() {}) {
		t.Error("expected closed pool to refuse tasks")
	}
}
