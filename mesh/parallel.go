package mesh

import (
	"runtime"
	"sync"
)

// parallelFor runs fn for every index in [0, n) across a bounded pool of
// worker goroutines and joins before returning. This is synchronous
// fan-out/fan-in: no state is shared beyond the indices themselves, so fn
// must only touch data owned by its index (a row or column line).
func parallelFor(n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	work := make(chan int, n)
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
