package enrich

import (
	"context"
	"log/slog"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
	"github.com/gallerykit/gallery-enrich/internal/config"
	"github.com/gallerykit/gallery-enrich/internal/enrich/gemini"
)

// BuildStages assembles the full enrichment pipeline for one run: the
// endpoint notice, the three API-backed features, and the caption feature
// when a Gemini key is configured.
func BuildStages(ctx context.Context, cfg config.Config, store catalog.Store, logger *slog.Logger) ([]Stage, error) {
	stages := []Stage{EndpointNotice(cfg.API, logger)}

	for _, feature := range []Feature{Similarity, Objects, Faces} {
		stage, err := NewFeatureStage(cfg.API, feature, store, logger)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	switch {
	case cfg.API.Disabled(CaptionsFeature.Name):
		logger.Info("feature disabled by configuration", "feature", CaptionsFeature.Name)
		stages = append(stages, Identity())
	case cfg.Gemini.APIKey == "":
		logger.Info("captions disabled: no gemini api key configured")
		stages = append(stages, Identity())
	default:
		captioner, err := gemini.New(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			return nil, err
		}
		stages = append(stages, NewCaptionStage(cfg.API, captioner, store, logger))
	}

	return stages, nil
}

// Run streams the entries through the stages and drains the result. It
// returns the number of entries that completed the full pipeline; with a
// cancelled context this may be fewer than were fed in.
func Run(ctx context.Context, entries []*catalog.Entry, stages ...Stage) int {
	in := make(chan *catalog.Entry)
	go func() {
		defer close(in)
		for _, entry := range entries {
			select {
			case in <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := Chain(stages...)(ctx, in)
	processed := 0
	for range out {
		processed++
	}
	return processed
}
