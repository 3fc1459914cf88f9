package utils

import (
	"fmt"
	"sync"
)

// Task is a unit of work run by RunParallel.
type Task func() error

// RunParallel runs every task in its own goroutine and returns their errors
// in task order.
func RunParallel(tasks ...Task) []error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t Task) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[index] = fmt.Errorf("task panicked: %v", r)
				}
			}()
			errs[index] = t()
		}(i, task)
	}

	wg.Wait()
	return errs
}

// WorkerPool runs submitted functions on a fixed set of goroutines. Its queue
// is bounded and submission never blocks.
type WorkerPool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	onPanic func(interface{})
}

// NewWorkerPool starts maxWorkers workers sharing a queue of queueSize tasks.
// onPanic, when set, receives the value of a task that panicked.
func NewWorkerPool(maxWorkers, queueSize int, onPanic func(interface{})) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	pool := &WorkerPool{
		tasks:   make(chan func(), queueSize),
		onPanic: onPanic,
	}

	pool.wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go pool.worker()
	}
	return pool
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	task()
}

// TrySubmit queues task and reports false when the queue is full or the
// pool is closed.
func (p *WorkerPool) TrySubmit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}

	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Closed reports whether Close has been called.
func (p *WorkerPool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
