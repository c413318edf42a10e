// Package parallel splits per-row raster work across a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// minPixels is the smallest band worth handing to another goroutine.
const minPixels = 16 * 1024

// Pool runs work items on a fixed number of goroutines.
//
// Each worker owns a queue and items are dealt round-robin. An idle worker
// takes items from the other queues before blocking on its own.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu is held for reading while Run queues items and for writing
	// while Close stops the workers.
	mu      sync.RWMutex
	running bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), max(8, 2*workers))
	}
	p.running = true
	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

var shared = sync.OnceValue(func() *Pool { return NewPool(0) })

// Shared returns the process-wide pool used by the software renderer.
func Shared() *Pool { return shared() }

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case fn := <-own:
			fn()
			continue
		case <-p.done:
			p.drain(own)
			return
		default:
		}
		if fn := p.take(id); fn != nil {
			fn()
			continue
		}
		select {
		case fn := <-own:
			fn()
		case <-p.done:
			p.drain(own)
			return
		}
	}
}

func (p *Pool) drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

// take removes one item from another worker's queue, or returns nil.
func (p *Pool) take(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.queues[(id+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// Run executes every item and returns when all of them have finished.
// After Close the items run on the calling goroutine. Items must not call
// Run on the same pool.
func (p *Pool) Run(work []func()) {
	if len(work) == 0 {
		return
	}
	if len(work) == 1 {
		work[0]()
		return
	}

	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			fn()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Rows calls fn over disjoint row ranges [y0, y1) that together cover
// [0, height). Rows of width pixels are grouped so each band has at least
// minPixels pixels; a small raster is a single call on the caller's
// goroutine.
func (p *Pool) Rows(width, height int, fn func(y0, y1 int)) {
	if width <= 0 || height <= 0 {
		return
	}
	per := max(1, minPixels/width)
	bands := min(p.workers, (height+per-1)/per)
	if bands <= 1 {
		fn(0, height)
		return
	}

	step := (height + bands - 1) / bands
	work := make([]func(), 0, bands)
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		work = append(work, func() { fn(y0, y1) })
	}
	p.Run(work)
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return p.workers }

// Close stops the workers once the queued items have run. It is safe to
// call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}
