// Package parallel runs independent indexed jobs on a bounded worker pool.
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns the pool size for n jobs. A non-positive configured value
// means one worker per job, capped at the CPU count times four.
func Workers(configured, n int) int {
	w := configured
	if w <= 0 {
		w = n
		if limit := runtime.NumCPU() * 4; w > limit {
			w = limit
		}
	}
	if n > 0 && w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// RunIndexed executes fn for indices [0,n) using a worker pool and returns
// all results in completion order. A slow or failing job never blocks the
// others from being picked up.
func RunIndexed[T any](n, workers int, fn func(int) T) []T {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	results := make(chan T)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range jobs {
			results <- fn(idx)
		}
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go worker()
	}

	go func() {
		for i := 0; i < n; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, <-results)
	}
	wg.Wait()
	return out
}
