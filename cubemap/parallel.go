package cubemap

import (
	"runtime"
	"sync"
)

// ParallelConfig configures how transforms are spread across goroutines.
type ParallelConfig struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum work units per worker before parallelization.
	// If total units < GrainSize * NumWorkers, the transform runs sequentially.
	GrainSize int
}

// DefaultParallelConfig returns the default parallel configuration.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		NumWorkers: 0, // Use all available CPUs
		GrainSize:  8, // A handful of scanlines per worker minimum
	}
}

var (
	parallelConfig   = DefaultParallelConfig()
	parallelConfigMu sync.RWMutex
)

// SetParallelConfig sets the global parallel configuration.
func SetParallelConfig(config ParallelConfig) {
	parallelConfigMu.Lock()
	defer parallelConfigMu.Unlock()
	parallelConfig = config
}

// GetParallelConfig returns the current parallel configuration.
func GetParallelConfig() ParallelConfig {
	parallelConfigMu.RLock()
	defer parallelConfigMu.RUnlock()
	return parallelConfig
}

// effectiveWorkers returns the number of workers to use.
func effectiveWorkers(config ParallelConfig) int {
	if config.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return config.NumWorkers
}

// EmptyState is the scratch type for transforms that need no per-worker state.
type EmptyState struct{}

// ScanlineFunc processes one row of one face, writing every texel of row
// exactly once. The state value is private to a single worker and is never
// shared, so expensive per-worker setup needs no synchronization.
type ScanlineFunc[S any] func(state *S, f Face, y int, row []Texel)

// Process invokes fn for every (face, row) pair of cm, in parallel when the
// work is large enough to be worth it. Rows are disjoint and independent;
// Process returns only after every row has been written, so no caller ever
// observes a partially written cubemap.
func Process[S any](cm *Cubemap, fn ScanlineFunc[S]) error {
	if err := cm.checkFaces(); err != nil {
		return err
	}

	config := GetParallelConfig()
	numWorkers := effectiveWorkers(config)
	dim := cm.dim
	n := int(numFaces) * dim

	run := func(state *S, start, end int) {
		for i := start; i < end; i++ {
			f := Face(i / dim)
			y := i % dim
			fn(state, f, y, cm.faces[f].Row(y))
		}
	}

	// Run sequentially if not worth parallelizing
	if n <= config.GrainSize*numWorkers || numWorkers == 1 {
		run(new(S), 0, n)
		return nil
	}

	var wg sync.WaitGroup
	chunkSize := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			run(new(S), s, e)
		}(start, end)
	}
	wg.Wait()
	return nil
}

// ParallelFor runs fn(i) for i in [0, n) in parallel.
// If n is small or there's only one worker, runs sequentially.
func ParallelFor(n int, fn func(i int)) {
	config := GetParallelConfig()
	numWorkers := effectiveWorkers(config)

	if n <= config.GrainSize*numWorkers || numWorkers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
