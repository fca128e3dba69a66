package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
	"github.com/gallerykit/gallery-enrich/internal/config"
)

// CaptionsFeature is the model-backed sibling of the API features; it has
// no API path because the call goes through the Gemini SDK.
var CaptionsFeature = Feature{Name: "captions", OutputSuffix: "caption.json"}

// Captioner generates a serialized caption document for one image.
type Captioner interface {
	Caption(ctx context.Context, image []byte, mimeType string) ([]byte, error)
}

// NewCaptionStage wires the captioner to the dispatcher with the same
// gating, budget, and pass-through semantics as the API features. Model
// call failures count against the budget like remote protocol errors.
func NewCaptionStage(cfg config.APIConfig, captioner Captioner, store catalog.Store, logger *slog.Logger) Stage {
	opts := Options{
		Feature:       CaptionsFeature.Name,
		InputSuffixes: PreviewSuffixes(cfg.PreviewSizes),
		OutputSuffix:  CaptionsFeature.OutputSuffix,
		Concurrency:   cfg.Concurrent,
		Timeout:       cfg.Timeout(),
		RateLimitRPS:  cfg.RateLimitRPS,
	}

	budget := NewBudget(opts.Feature, logger)
	task := newCaptionTask(opts, store, captioner, budget, logger)
	return NewDispatcher(opts, NewPredicate(opts, store, budget), task).Stage()
}

func newCaptionTask(opts Options, store catalog.Store, captioner Captioner, budget *Budget, logger *slog.Logger) TaskFunc {
	logger = logger.With("feature", opts.Feature)
	return func(ctx context.Context, entry *catalog.Entry) {
		suffix, ok := selectInputSuffix(opts.InputSuffixes, store, entry)
		if !ok {
			return
		}

		data, err := store.Read(entry, suffix)
		if err != nil {
			logger.Warn("could not read preview, skipping entry", "entry", entry.ID, "suffix", suffix, "err", err)
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()

		start := time.Now()
		body, err := captioner.Caption(callCtx, data, contentTypeFor(suffix))
		if err != nil {
			budget.RecordFailure()
			logger.Warn("caption request failed", "entry", entry.ID, "err", err)
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
