package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
	"github.com/gallerykit/gallery-enrich/internal/config"
	"github.com/gallerykit/gallery-enrich/internal/enrich"
	"github.com/gallerykit/gallery-enrich/internal/index"
	"github.com/gallerykit/gallery-enrich/internal/logging"
	"github.com/gallerykit/gallery-enrich/internal/version"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	case "version", "--version":
		fmt.Println(version.Current)
		return
	case "enrich":
		os.Exit(runEnrich(ctx, os.Args[2:]))
	case "index":
		os.Exit(runIndex(os.Args[2:]))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runEnrich(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "YAML config file path (optional)")
	entriesPath := fs.String("entries", "", "Catalog listing: JSON array of {id, type} records")
	storagePath := fs.String("storage", "", "Artifact storage root (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *entriesPath == "" {
		_, _ = fmt.Fprintln(os.Stderr, "enrich requires --entries")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		return 2
	}
	if *storagePath != "" {
		cfg.Storage = *storagePath
	}

	logger := logging.Setup(os.Stdout, cfg.LogLevel)

	store, err := catalog.NewFileStore(cfg.Storage)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "storage error: %s\n", err)
		return 2
	}

	entries, err := catalog.ReadEntries(*entriesPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "entries error: %s\n", err)
		return 2
	}

	stages, err := enrich.BuildStages(ctx, cfg, store, logger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "enrich setup failed: %s\n", err)
		return 1
	}

	start := time.Now()
	processed := enrich.Run(ctx, entries, stages...)
	logger.Info("enrichment run complete",
		"entries", processed,
		"duration", time.Since(start).Round(time.Millisecond))
	return 0
}

func runIndex(args []string) int {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "YAML config file path (optional)")
	base := fs.String("base", "", "Media root to scan (overrides config)")
	output := fs.String("output", "", "Output path for the compressed index (overrides config)")
	dryRun := fs.Bool("dry-run", false, "Build the index without writing it")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		return 2
	}
	if *base == "" {
		*base = cfg.Index.Base
	}
	if *output == "" {
		*output = cfg.Index.Output
	}
	if *base == "" {
		_, _ = fmt.Fprintln(os.Stderr, "index requires --base (or index.base in the config file)")
		return 2
	}

	logger := logging.Setup(os.Stdout, cfg.LogLevel)

	start := time.Now()
	idx, err := index.Write(index.Options{Base: *base, Output: *output, DryRun: *dryRun})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "index failed: %s\n", err)
		return 1
	}
	logger.Info("index complete",
		"base", idx.Base,
		"files", len(idx.Data),
		"dryRun", *dryRun,
		"duration", time.Since(start).Round(time.Millisecond))
	return 0
}

func usage(w *os.File) {
	_, _ = fmt.Fprintf(w, `gallery-enrich: enrich a media catalog through a remote inference api

Usage:
  gallery-enrich <command> [flags]

Commands:
  enrich   Run similarity/objects/faces (and optional caption) enrichment
  index    Write the compressed file index for a media directory
  version  Print the release version

Examples:
  gallery-enrich enrich --entries entries.json --storage ./storage
  gallery-enrich index --base ./media --output catalog.idx

Environment:
  GALLERY_API_URL         Inference API base URL
  GALLERY_API_CONCURRENT  Concurrent requests per feature
  GALLERY_API_TIMEOUT     Per-request timeout in seconds
  GALLERY_API_RATE_LIMIT_RPS  Global requests-per-second cap, 0 disables
  GALLERY_LOG_LEVEL       debug, info, warn or error
  GEMINI_API_KEY          Enables the caption feature when set
  GEMINI_MODEL            Gemini model name

`)
}
