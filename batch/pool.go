package batch

import (
	"context"
	"sync"
)

// workerPool bounds the number of conversions running at once.
type workerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func newWorkerPool(maxWorkers int) *workerPool {
	return &workerPool{
		sem: make(chan struct{}, maxWorkers),
	}
}

func (p *workerPool) Submit(ctx context.Context, path string, handler func(context.Context, string)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			handler(ctx, path)
		case <-ctx.Done():
		}
	}()
}

func (p *workerPool) Wait() {
	p.wg.Wait()
}
