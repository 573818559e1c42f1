package corrections

import (
	"context"
	"fmt"
	"sync"
)

// BurstResult pairs one burst's LUTs with the error that aborted it.
// Bursts are independent; a failed burst never corrupts another's output.
type BurstResult struct {
	BurstID    string
	RangeLUT   LUT
	AzimuthLUT LUT
	Err        error
}

// RunBursts runs fn for each burst ID with at most workers in flight.
// Results arrive keyed by burst ID; per-burst failures are recorded, not
// fatal to the batch. Retry or skip semantics belong to the caller.
func RunBursts(ctx context.Context, burstIDs []string, workers int,
	fn func(ctx context.Context, burstID string) (LUT, LUT, error)) map[string]BurstResult {

	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	results := make(map[string]BurstResult, len(burstIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range burstIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := BurstResult{BurstID: id}
			if err := ctx.Err(); err != nil {
				res.Err = fmt.Errorf("corrections: burst %s: %w", id, err)
			} else {
				res.RangeLUT, res.AzimuthLUT, res.Err = fn(ctx, id)
			}

			mu.Lock()
			results[id] = res
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return results
}
