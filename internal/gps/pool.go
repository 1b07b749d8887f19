package gps

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// task owns one decoded sentence on its way from the reader to a pool
// worker. The timestamp argument is the capture time assigned right before
// the subscriber callbacks fire.
type task func(timestamp int64)

// dispatchPool decouples callback latency from file I/O bursts. A fixed set
// of workers drains the queue, paced so that successive deliveries are
// spaced by at least the configured interval. With a single worker the
// delivery order matches parse order; with more workers cross-task ordering
// is best effort.
type dispatchPool struct {
	tasks   chan task
	limiter *rate.Limiter

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newDispatchPool(workers int, interval time.Duration) *dispatchPool {
	if workers < 1 {
		workers = 1
	}

	p := &dispatchPool{
		// The queue is bounded in practice by the read chunk size, the
		// buffer only smooths out a single read burst.
		tasks:   make(chan task, 64),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *dispatchPool) worker() {
	defer p.wg.Done()

	for t := range p.tasks {
		// Pacing sleep, shared across workers
		_ = p.limiter.Wait(context.Background())

		t(time.Now().UnixMilli())
	}
}

// enqueue hands a task to the pool. It blocks when the queue is full, which
// back-pressures the reader instead of dropping sentences.
func (p *dispatchPool) enqueue(t task) {
	p.tasks <- t
}

// close drains the queue and joins all workers. No task is dropped and no
// callback fires after it returns.
func (p *dispatchPool) close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
