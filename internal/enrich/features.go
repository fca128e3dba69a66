package enrich

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
	"github.com/gallerykit/gallery-enrich/internal/config"
	"github.com/gallerykit/gallery-enrich/internal/remote"
)

// Feature binds a capability of the inference API to an API path and an
// output artifact.
type Feature struct {
	Name         string
	APIPath      string
	OutputSuffix string
}

var (
	Similarity = Feature{Name: "similarity", APIPath: "/embeddings", OutputSuffix: "similarity-embeddings.json"}
	Objects    = Feature{Name: "objects", APIPath: "/objects", OutputSuffix: "objects.json"}
	Faces      = Feature{Name: "faces", APIPath: "/faces", OutputSuffix: "faces.json"}
)

// MaxPreviewSize caps the preview dimension sent to the API. Larger
// previews add upload time without improving inference results.
const MaxPreviewSize = 800

// PreviewSuffixes maps the configured preview sizes to input suffix names,
// keeping only sizes up to MaxPreviewSize and preferring the largest.
func PreviewSuffixes(sizes []int) []string {
	var fit []int
	for _, size := range sizes {
		if size > 0 && size <= MaxPreviewSize {
			fit = append(fit, size)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(fit)))

	suffixes := make([]string, 0, len(fit))
	for _, size := range fit {
		suffixes = append(suffixes, fmt.Sprintf("preview-%d.jpg", size))
	}
	return suffixes
}

// NewFeatureStage wires one API-backed feature to the dispatcher, or
// returns the identity stage when the feature is disabled.
func NewFeatureStage(cfg config.APIConfig, feature Feature, store catalog.Store, logger *slog.Logger) (Stage, error) {
	if cfg.Disabled(feature.Name) {
		logger.Info("feature disabled by configuration", "feature", feature.Name)
		return Identity(), nil
	}

	client, err := remote.NewClient(cfg.URL, cfg.Timeout())
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", feature.Name, err)
	}

	opts := Options{
		Feature:       feature.Name,
		APIURL:        cfg.URL,
		APIPath:       feature.APIPath,
		InputSuffixes: PreviewSuffixes(cfg.PreviewSizes),
		OutputSuffix:  feature.OutputSuffix,
		Concurrency:   cfg.Concurrent,
		Timeout:       cfg.Timeout(),
		RateLimitRPS:  cfg.RateLimitRPS,
	}

	budget := NewBudget(feature.Name, logger)
	task := NewAPITask(opts, store, client, budget, logger)
	return NewDispatcher(opts, NewPredicate(opts, store, budget), task).Stage(), nil
}
