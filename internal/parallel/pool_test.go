package parallel

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_Create(t *testing.T) {
	tests := []struct {
		workers int
		want    int
	}{
		{4, 4},
		{0, runtime.GOMAXPROCS(0)},
		{-5, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		pool := NewPool(tt.workers)
		if pool.Workers() != tt.want {
			t.Errorf("NewPool(%d).Workers() = %d, want %d", tt.workers, pool.Workers(), tt.want)
		}
		pool.Close()
	}
}

func TestPool_Run(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.Run(work)

	if got := counter.Load(); got != 100 {
		t.Errorf("counter = %d, want 100", got)
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()

	ran := 0
	pool.Run([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran = %d after Close, want 2 inline", ran)
	}
}

// TestPool_RunDuringClose closes the pool while several callers are
// queuing; every item still runs and no caller is left waiting.
func TestPool_RunDuringClose(t *testing.T) {
	pool := NewPool(2)

	const callers, items = 8, 200
	var counter atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func(), items)
			for i := range work {
				work[i] = func() { counter.Add(1) }
			}
			<-start
			pool.Run(work)
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	close(start)
	pool.Close()

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	if got := counter.Load(); got != callers*items {
		t.Errorf("counter = %d, want %d", got, callers*items)
	}
}

// TestPool_Rows checks that the bands are disjoint and cover every row.
func TestPool_Rows(t *testing.T) {
	tests := []struct {
		name          string
		workers       int
		width, height int
		wantBands     int
	}{
		{"small raster", 4, 10, 10, 1},
		{"one row per band", 4, minPixels, 8, 4},
		{"more workers than rows", 16, minPixels, 3, 3},
		{"uneven", 3, minPixels, 10, 3},
		{"empty", 4, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers)
			defer pool.Close()

			var mu sync.Mutex
			var bands [][2]int
			pool.Rows(tt.width, tt.height, func(y0, y1 int) {
				mu.Lock()
				bands = append(bands, [2]int{y0, y1})
				mu.Unlock()
			})

			if len(bands) != tt.wantBands {
				t.Fatalf("Rows() made %d bands, want %d: %v", len(bands), tt.wantBands, bands)
			}
			sort.Slice(bands, func(i, j int) bool { return bands[i][0] < bands[j][0] })
			next := 0
			for _, b := range bands {
				if b[0] != next || b[1] <= b[0] {
					t.Fatalf("bands = %v, want contiguous cover of [0, %d)", bands, tt.height)
				}
				next = b[1]
			}
			if tt.height > 0 && next != tt.height {
				t.Errorf("bands end at %d, want %d", next, tt.height)
			}
		})
	}
}

func TestShared(t *testing.T) {
	if Shared() != Shared() {
		t.Error("Shared() returned different pools")
	}
}

func BenchmarkPool_Rows(b *testing.B) {
	pool := NewPool(0)
	defer pool.Close()
	buf := make([]float32, 1024*1024)
	b.ReportAllocs()
	for b.Loop() {
		pool.Rows(1024, 1024, func(y0, y1 int) {
			for i := y0 * 1024; i < y1*1024; i++ {
				buf[i] *= 0.5
			}
		})
	}
}
