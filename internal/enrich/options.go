// Package enrich turns a stream of catalog entries into a stream of
// enriched-or-skipped entries, one remote inference call per eligible
// entry, under a fixed concurrency limit and a per-feature error budget.
package enrich

import "time"

// Options configures one feature's dispatcher. Built once at startup,
// never mutated afterwards.
type Options struct {
	// Feature names the capability (similarity, objects, faces, captions)
	// for logging and disable matching.
	Feature string

	APIURL  string
	APIPath string

	// InputSuffixes are acceptable preview artifacts in preference order;
	// the first one present on an entry is used.
	InputSuffixes []string
	// OutputSuffix names the artifact the API response is written to.
	OutputSuffix string

	Concurrency int
	// Timeout bounds each remote call; it never cancels sibling tasks.
	Timeout time.Duration

	// RateLimitRPS is a global limit across all workers. Set to <=0 to
	// disable.
	RateLimitRPS float64
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
