// Package resilience bounds concurrent work.
//
// A Bulkhead caps how many functions run at once. The pipeline uses one
// per action to fan a reducer out over the matched entities without
// starting more goroutines than the configured parallelism allows:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "pipeline.step",
//	    MaxConcurrent: 4,
//	    MaxWait:       resilience.WaitUntilDone,
//	})
//	err := resilience.Each(ctx, bh, positions, func(pos int) error {
//	    next[pos] = reg.Reduce(state[pos], a)
//	    return nil
//	})
package resilience
