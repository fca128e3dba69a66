package enrich

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
	"github.com/gallerykit/gallery-enrich/internal/remote"
)

// NewAPITask builds the per-entry enrichment task: read the best preview,
// post it to the inference API, write the response as the output artifact.
//
// All failures are terminal for the entry and never surface to the
// dispatcher. Only remote-call outcomes move the budget; local read and
// write failures are logged and otherwise ignored, so a flaky disk cannot
// trip the circuit for a healthy API.
func NewAPITask(opts Options, store catalog.Store, client *remote.Client, budget *Budget, logger *slog.Logger) TaskFunc {
	logger = logger.With("feature", opts.Feature)
	return func(ctx context.Context, entry *catalog.Entry) {
		suffix, ok := selectInputSuffix(opts.InputSuffixes, store, entry)
		if !ok {
			// Predicate raced a concurrent artifact removal; nothing to do.
			return
		}

		data, err := store.Read(entry, suffix)
		if err != nil {
			logger.Warn("could not read preview, skipping entry", "entry", entry.ID, "suffix", suffix, "err", err)
			return
		}

		start := time.Now()
		body, err := client.Post(ctx, opts.APIPath, contentTypeFor(suffix), data)
		if err != nil {
			budget.RecordFailure()
			var statusErr *remote.StatusError
			if errors.As(err, &statusErr) {
				logger.Error("api rejected request", "entry", entry.ID, "err", err)
			} else {
				logger.Warn("api request failed", "entry", entry.ID, "err", err)
			}
			return
		}

		if err := store.Write(entry, opts.OutputSuffix, body); err != nil {
			logger.Warn("could not write result", "entry", entry.ID, "suffix", opts.OutputSuffix, "err", err)
			return
		}

		budget.RecordSuccess()
		logger.Info("entry enriched",
			"entry", entry.ID,
			"suffix", opts.OutputSuffix,
			"duration", time.Since(start).Round(time.Millisecond))
	}
}

func contentTypeFor(suffix string) string {
	switch strings.ToLower(path.Ext(suffix)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
