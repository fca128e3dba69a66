package enrich

import "github.com/gallerykit/gallery-enrich/internal/catalog"

// NewPredicate builds the eligibility gate for one feature: the budget
// must not be tripped, at least one input suffix must exist, the output
// suffix must not (never re-enrich), and the entry must be a still image.
//
// The budget is re-checked live for every entry rather than latched, so
// a recovered budget re-admits entries later in the same stream.
func NewPredicate(opts Options, store catalog.Store, budget *Budget) Predicate {
	return func(entry *catalog.Entry) bool {
		if budget.Tripped() {
			return false
		}
		if _, ok := selectInputSuffix(opts.InputSuffixes, store, entry); !ok {
			return false
		}
		if store.Has(entry, opts.OutputSuffix) {
			return false
		}
		return entry.Type == catalog.TypeImage || entry.Type == catalog.TypeRawImage
	}
}

// selectInputSuffix returns the first configured suffix present on the
// entry, in preference order.
func selectInputSuffix(suffixes []string, store catalog.Store, entry *catalog.Entry) (string, bool) {
	for _, suffix := range suffixes {
		if store.Has(entry, suffix) {
			return suffix, true
		}
	}
	return "", false
}
