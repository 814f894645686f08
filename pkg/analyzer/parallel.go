package analyzer

import (
	"context"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// MapFiles processes files in parallel, calling fn for each file. Results
// are collected in arbitrary order. Errors from individual files are
// reported through the per-file result, not here, so a bad file never
// aborts the batch. Cancellation is honored between files.
func MapFiles[T any](ctx context.Context, files []string, fn func(string) (T, error)) []T {
	return MapFilesN(ctx, files, 0, fn, nil)
}

// MapFilesN processes files with a configurable worker count and optional
// progress callback. If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapFilesN[T any](ctx context.Context, files []string, maxWorkers int, fn func(string) (T, error), onProgress ProgressFunc) []T {
	if len(files) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * 2
	}

	results := make([]T, 0, len(files))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		p.Go(func() {
			result, err := fn(path)

			if onProgress != nil {
				onProgress()
			}

			if err != nil {
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}
