// Package worker runs queued jobs on a fixed number of goroutines. Jobs wait in a bounded
// queue; Submit blocks while the queue is full, which is how callers feel backpressure.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

type Handler[T any] func(ctx context.Context, job T)

type Pool[T any] struct {
	name    string
	size    int
	jobs    chan T
	handler Handler[T]

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func New[T any](name string, size, queueSize int, handler Handler[T]) *Pool[T] {
	return &Pool[T]{
		name:    name,
		size:    max(size, 1),
		jobs:    make(chan T, max(queueSize, 0)),
		handler: handler,
	}
}

// Start launches the workers. Jobs run with a context derived from ctx that is cancelled
// only when Shutdown gives up waiting.
func (p *Pool[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.started = true

	ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for i := range p.size {
		p.wg.Add(1)

		go p.work(ctx, i)
	}

	log.Info().Str("pool", p.name).Int("workers", p.size).Int("queue", cap(p.jobs)).Msg("Worker pool started")
}

func (p *Pool[T]) work(ctx context.Context, id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		p.run(ctx, id, job)
	}
}

func (p *Pool[T]) run(ctx context.Context, id int, job T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("pool", p.name).Int("worker", id).Interface("panic", r).Msg("Recovered from panic in job")
		}
	}()

	p.handler(ctx, job)
}

// Submit queues job, blocking while the queue is full until ctx ends.
func (p *Pool[T]) Submit(ctx context.Context, job T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queueing job on %s: %w", p.name, ctx.Err())
	}
}

// Pending returns the number of queued jobs not yet picked up.
func (p *Pool[T]) Pending() int {
	return len(p.jobs)
}

// Shutdown stops accepting jobs and waits for queued and running jobs to finish.
// When ctx ends first, running jobs see their context cancelled.
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()

		return nil
	}

	p.closed = true
	close(p.jobs)
	started := p.started
	p.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Str("pool", p.name).Msg("Worker pool drained")

		return nil
	case <-ctx.Done():
		p.cancel()
		<-done

		return fmt.Errorf("draining %s: %w", p.name, ctx.Err())
	}
}
