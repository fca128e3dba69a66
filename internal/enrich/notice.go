package enrich

import (
	"log/slog"

	"github.com/gallerykit/gallery-enrich/internal/config"
	"github.com/gallerykit/gallery-enrich/internal/remote"
)

// EndpointNotice logs where previews are being sent and returns a
// pass-through stage. Runs pointed at the hosted default endpoint get a
// one-time privacy warning; everything else gets a debug confirmation.
func EndpointNotice(cfg config.APIConfig, logger *slog.Logger) Stage {
	host, err := remote.Host(cfg.URL)
	defaultHost, _ := remote.Host(config.DefaultAPIURL)
	if err == nil && host == defaultHost {
		logger.Warn("previews are sent to the hosted gallerykit api; see docs/api-privacy.md for details",
			"url", cfg.URL)
	} else {
		logger.Debug("using configured api endpoint",
			"url", cfg.URL,
			"concurrent", cfg.Concurrent,
			"timeout", cfg.Timeout())
	}
	return Identity()
}
