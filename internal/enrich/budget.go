package enrich

import (
	"log/slog"
	"sync"
)

// TripThreshold is the error count above which a feature stops dispatching
// remote calls for the remainder of the run.
const TripThreshold = 5

// Budget counts remote-call failures for one feature over one run.
//
// Failures increment the counter and successes decay it back toward zero,
// so a tripped budget can recover mid-run if enough calls succeed. The
// trip is immediate, the recovery gradual; that asymmetry damps load on a
// struggling API without writing the feature off for good.
//
// Local I/O failures never touch the budget; only remote-call outcomes do.
type Budget struct {
	feature string
	logger  *slog.Logger

	mu     sync.Mutex
	count  int
	warned bool
}

func NewBudget(feature string, logger *slog.Logger) *Budget {
	return &Budget{feature: feature, logger: logger}
}

// RecordFailure increments the counter. The first increment that pushes
// the count past the threshold logs a warning; later ones stay quiet.
func (b *Budget) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	if b.count > TripThreshold && !b.warned {
		b.warned = true
		b.logger.Warn("too many errors from the api, skipping feature for the remainder of the run",
			"feature", b.feature,
			"errors", b.count)
	}
}

// RecordSuccess decrements the counter, floored at zero.
func (b *Budget) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count > 0 {
		b.count--
	}
}

// Tripped reports whether the count currently exceeds the threshold. It
// reads the live counter, so a tripped budget un-trips once successes
// bring the count back down.
func (b *Budget) Tripped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > TripThreshold
}

// Count returns the current error count.
func (b *Budget) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
