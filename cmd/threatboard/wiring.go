package main

import (
	"fmt"
	"strings"

	"threatboard/config"
	"threatboard/internal/catalog"
	"threatboard/internal/dashboard"
	"threatboard/internal/input/backendhttp"
	inputredis "threatboard/internal/input/redis"
	"threatboard/internal/input/snapshotfile"
	"threatboard/internal/layout"
	"threatboard/internal/logger"
	"threatboard/internal/output/dashboardhttp"
	"threatboard/internal/output/dashboardjson"
	"threatboard/internal/output/dashboardnats"
	"threatboard/internal/pipeline"
	"threatboard/internal/snapshot"
)

func newBuilder(cfg *config.Config) (*dashboard.Builder, error) {
	tb := cfg.ThreatBoard

	cat := catalog.Builtin()
	if path := strings.TrimSpace(tb.Catalog.SigmaPath); path != "" {
		stats, err := cat.LoadSigma(path)
		if err != nil {
			return nil, fmt.Errorf("load sigma rules from %s: %w", path, err)
		}
		logger.Infof("Sigma rules loaded: loaded=%d skipped_untagged=%d skipped_invalid=%d files=%d techniques=%d",
			stats.Loaded,
			stats.SkippedUntagged,
			stats.SkippedInvalid,
			stats.TotalFiles,
			cat.Len(),
		)
		if stats.Loaded == 0 {
			logger.Warnf("No ATT&CK-tagged Sigma rules loaded; using built-in catalog only")
		}
	}

	validator, err := snapshot.NewValidator()
	if err != nil {
		return nil, err
	}

	return dashboard.NewBuilder(dashboard.Options{
		Region:       layout.Region{Width: tb.Layout.Width, Height: tb.Layout.Height},
		Margin:       tb.Layout.Margin,
		CacheSize:    tb.Cache.Size,
		FillSeverity: tb.Catalog.FillSeverity,
	}, cat, validator)
}

func newSource(cfg config.SourceConfig) (pipeline.Source, error) {
	switch cfg.Mode {
	case "http":
		logger.Infof("Source mode: http (%s)", cfg.HTTP.URL)
		return backendhttp.NewSource(backendhttp.Config{
			URL:     cfg.HTTP.URL,
			Timeout: cfg.HTTP.Timeout,
			Headers: cfg.HTTP.Headers,
		})
	case "redis":
		logger.Infof("Source mode: redis %s (%s %s)", cfg.Redis.Mode, cfg.Redis.Addr, cfg.Redis.Key)
		return inputredis.NewSource(inputredis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			Key:          cfg.Redis.Key,
			Mode:         cfg.Redis.Mode,
			BlockTimeout: cfg.Redis.BlockTimeout,
		})
	case "file":
		logger.Infof("Source mode: file (%s)", cfg.File.Path)
		return snapshotfile.NewSource(cfg.File.Path)
	default:
		return nil, fmt.Errorf("unknown source mode: %s", cfg.Mode)
	}
}

func newWriter(cfg config.OutputConfig) (pipeline.DashboardWriter, error) {
	switch cfg.Mode {
	case "", "none":
		logger.Infof("Output mode: none (API only)")
		return pipeline.NopWriter{}, nil
	case "file":
		logger.Infof("Output mode: file (%s)", cfg.File.Path)
		return dashboardjson.NewWriter(cfg.File.Path)
	case "http":
		logger.Infof("Output mode: http (%s)", cfg.HTTP.URL)
		return dashboardhttp.NewWriter(dashboardhttp.Config{
			URL:     cfg.HTTP.URL,
			Timeout: cfg.HTTP.Timeout,
			Headers: cfg.HTTP.Headers,
		})
	case "nats":
		logger.Infof("Output mode: nats (%s %s)", cfg.NATS.URL, cfg.NATS.Subject)
		return dashboardnats.NewWriter(dashboardnats.Config{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
		})
	default:
		return nil, fmt.Errorf("unknown output mode: %s", cfg.Mode)
	}
}
