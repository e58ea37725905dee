package wall

import (
	"runtime"

	"github.com/sourcegraph/conc"
)

// minParallelRows is the row count below which work stays on the calling
// goroutine; spawning a pool costs more than it saves on small walls.
const minParallelRows = 256

// workerCount resolves a requested worker count: non-positive means one
// worker per available CPU.
func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// chunked runs fn over contiguous ranges covering [0, n). Ranges are
// processed concurrently when n is large enough, and chunked returns once all
// of them have finished. A panic in fn is re-raised on the calling goroutine.
func chunked(n, workers int, fn func(lo, hi int)) {
	workers = workerCount(workers)
	if workers == 1 || n < minParallelRows {
		fn(0, n)
		return
	}

	size := (n + workers - 1) / workers
	var wg conc.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Go(func() { fn(lo, hi) })
	}
	wg.Wait()
}

// strided runs fn for every index in [0, n), handing worker k the indices
// k, k+workers, k+2*workers and so on. Interleaving balances loops whose
// cost falls with the index, such as upper-triangle pair scans.
func strided(n, workers int, fn func(i int)) {
	workers = workerCount(workers)
	if workers == 1 || n < minParallelRows {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg conc.WaitGroup
	for k := 0; k < min(workers, n); k++ {
		wg.Go(func() {
			for i := k; i < n; i += workers {
				fn(i)
			}
		})
	}
	wg.Wait()
}
