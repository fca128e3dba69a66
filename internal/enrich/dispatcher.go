package enrich

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
)

// Stage consumes a stream of entries and produces a stream carrying the
// same entries. Stages never create, drop, or mutate entries; enrichment
// happens as a side effect against the store.
type Stage func(ctx context.Context, in <-chan *catalog.Entry) <-chan *catalog.Entry

// Predicate decides whether an entry is eligible for enrichment. It must
// be side-effect free and safe for concurrent use.
type Predicate func(entry *catalog.Entry) bool

// TaskFunc performs the enrichment side effect for one entry. It must
// swallow all failures; an error is terminal for that entry only.
type TaskFunc func(ctx context.Context, entry *catalog.Entry)

// Dispatcher runs a gated task over an entry stream with a fixed number
// of workers. Entries failing the predicate pass through untouched, and
// every entry appears exactly once on the output, in completion order.
type Dispatcher struct {
	opts     Options
	eligible Predicate
	task     TaskFunc
	limiter  *rate.Limiter
}

func NewDispatcher(opts Options, eligible Predicate, task TaskFunc) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts:     opts,
		eligible: eligible,
		task:     task,
	}
	if opts.RateLimitRPS > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}
	return d
}

// Stage returns the dispatcher as a pipeline stage. Workers pull entries
// only as fast as a free slot permits, bounding in-flight work to the
// configured concurrency regardless of stream length.
func (d *Dispatcher) Stage() Stage {
	return func(ctx context.Context, in <-chan *catalog.Entry) <-chan *catalog.Entry {
		out := make(chan *catalog.Entry)

		var wg sync.WaitGroup
		for i := 0; i < d.opts.Concurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for entry := range in {
					if d.eligible(entry) {
						if d.limiter != nil {
							if err := d.limiter.Wait(ctx); err != nil {
								forward(ctx, out, entry)
								continue
							}
						}
						d.task(ctx, entry)
					}
					if !forward(ctx, out, entry) {
						return
					}
				}
			}()
		}

		go func() {
			wg.Wait()
			close(out)
		}()
		return out
	}
}

// Identity is the explicit pass-through stage used for disabled features.
func Identity() Stage {
	return func(ctx context.Context, in <-chan *catalog.Entry) <-chan *catalog.Entry {
		out := make(chan *catalog.Entry)
		go func() {
			defer close(out)
			for entry := range in {
				if !forward(ctx, out, entry) {
					return
				}
			}
		}()
		return out
	}
}

func forward(ctx context.Context, out chan<- *catalog.Entry, entry *catalog.Entry) bool {
	select {
	case out <- entry:
		return true
	case <-ctx.Done():
		return false
	}
}

// Chain composes stages left to right into a single stage.
func Chain(stages ...Stage) Stage {
	return func(ctx context.Context, in <-chan *catalog.Entry) <-chan *catalog.Entry {
		for _, stage := range stages {
			in = stage(ctx, in)
		}
		return in
	}
}
