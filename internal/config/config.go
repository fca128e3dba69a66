package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the hosted inference API. Using it sends preview images
// to a third-party service; see docs/api-privacy.md.
const DefaultAPIURL = "https://api.gallerykit.dev"

// Config is the full configuration surface of the enrichment CLI.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Storage  string       `yaml:"storage"`
	API      APIConfig    `yaml:"api"`
	Gemini   GeminiConfig `yaml:"gemini"`
	Index    IndexConfig  `yaml:"index"`
}

// APIConfig configures the remote inference API and the shared dispatch
// settings for all HTTP-backed features.
type APIConfig struct {
	URL        string `yaml:"url"`
	Concurrent int    `yaml:"concurrent"`
	// TimeoutSeconds bounds each request; there is no overall run deadline.
	TimeoutSeconds int `yaml:"timeout"`
	// Disable lists feature names to skip (similarity, objects, faces,
	// captions). A single string is also accepted.
	Disable FeatureList `yaml:"disable"`
	// PreviewSizes are the preview variants available in storage, used to
	// derive acceptable input suffixes.
	PreviewSizes []int `yaml:"preview_sizes"`
	// RateLimitRPS caps requests per second across all workers of a
	// feature. Set to <=0 to disable.
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type IndexConfig struct {
	Base   string `yaml:"base"`
	Output string `yaml:"output"`
}

// FeatureList accepts either a YAML scalar or a sequence of feature names.
type FeatureList []string

func (d *FeatureList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		if strings.TrimSpace(one) == "" {
			*d = nil
			return nil
		}
		*d = FeatureList{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*d = FeatureList(many)
		return nil
	default:
		return fmt.Errorf("disable must be a feature name or a list of feature names")
	}
}

// Disabled reports whether the named feature is in the disable list.
func (c APIConfig) Disabled(feature string) bool {
	for _, d := range c.Disable {
		if strings.EqualFold(strings.TrimSpace(d), feature) {
			return true
		}
	}
	return false
}

// Timeout returns the per-request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaults() Config {
	return Config{
		LogLevel: "info",
		Storage:  "./storage",
		API: APIConfig{
			URL:            DefaultAPIURL,
			Concurrent:     5,
			TimeoutSeconds: 30,
			PreviewSizes:   []int{1920, 1280, 800, 320, 128},
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

// Load reads the optional YAML config file at path, applies environment
// overrides on top, and validates the result. An empty path yields the
// defaults plus environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path = strings.TrimSpace(path); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("GALLERY_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("GALLERY_API_URL")); v != "" {
		cfg.API.URL = v
	}
	concurrent, err := envInt("GALLERY_API_CONCURRENT", cfg.API.Concurrent)
	if err != nil {
		return err
	}
	cfg.API.Concurrent = concurrent
	timeout, err := envInt("GALLERY_API_TIMEOUT", cfg.API.TimeoutSeconds)
	if err != nil {
		return err
	}
	cfg.API.TimeoutSeconds = timeout
	rps, err := envFloat("GALLERY_API_RATE_LIMIT_RPS", cfg.API.RateLimitRPS)
	if err != nil {
		return err
	}
	cfg.API.RateLimitRPS = rps
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		cfg.Gemini.Model = v
	}
	return nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return fmt.Errorf("api.url is required")
	}
	if c.API.Concurrent <= 0 {
		return fmt.Errorf("api.concurrent must be a positive integer, got %d", c.API.Concurrent)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout must be a positive number of seconds, got %d", c.API.TimeoutSeconds)
	}
	return nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
