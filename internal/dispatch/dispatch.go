package dispatch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"squish/internal/config"
	"squish/internal/providers"
)

// Abridger turns one chunk into a Result. *providers.Client implements it.
type Abridger interface {
	Abridge(ctx context.Context, index int, chunk string) providers.Result
}

// ProgressFunc is called after each chunk completes, from the worker that finished it.
type ProgressFunc func(done, total int)

// EffectiveConcurrency applies the backend policy: hosted engines always run
// with the configured hosted worker count, the local engine with the requested one.
func EffectiveConcurrency(cfg config.Config) int {
	if !cfg.IsLocal() {
		if cfg.HostedConcurrency > 0 {
			return cfg.HostedConcurrency
		}
		return 5
	}
	return cfg.Concurrency
}

// Run abridges every chunk and returns results in chunk order. With
// concurrency <= 1 chunks are processed one after another; otherwise a pool
// of that many workers runs them and each result lands at its chunk's index.
func Run(ctx context.Context, a Abridger, chunks []string, concurrency int, progress ProgressFunc) []providers.Result {
	results := make([]providers.Result, len(chunks))
	var done atomic.Int64
	report := func() {
		n := int(done.Add(1))
		if progress != nil {
			progress(n, len(chunks))
		}
	}

	if concurrency <= 1 {
		for i, chunk := range chunks {
			results[i] = a.Abridge(ctx, i, chunk)
			report()
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			results[i] = a.Abridge(ctx, i, chunk)
			report()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Render flattens results into the strings written to the output file.
func Render(results []providers.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Render()
	}
	return out
}

func CountFailed(results []providers.Result) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}
