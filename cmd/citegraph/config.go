// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/crawl"
	"github.com/pdiddy/citegraph/internal/s2"
	"github.com/pdiddy/citegraph/internal/secrets"
	"github.com/pdiddy/citegraph/pkg/types"
)

const defaultOutputDir = "output"

// flagBindings maps config keys to the persistent flags that override them.
var flagBindings = map[string]string{
	"fetch.api_key":       "api-key",
	"fetch.max_attempts":  "max-attempts",
	"fetch.timeout":       "timeout",
	"fetch.backoff_base":  "backoff-base",
	"fetch.backoff_cap":   "backoff-cap",
	"crawl.request_delay": "request-delay",
	"export.output_dir":   "output-dir",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.max_attempts", s2.DefaultMaxAttempts)
	v.SetDefault("fetch.timeout", s2.DefaultTimeout)
	v.SetDefault("fetch.backoff_base", s2.DefaultBackoffBase)
	v.SetDefault("fetch.backoff_cap", s2.DefaultBackoffCap)
	v.SetDefault("fetch.user_agent", s2.DefaultUserAgent)
	v.SetDefault("crawl.max_depth", 1)
	v.SetDefault("crawl.direction", string(types.DirectionCitations))
	v.SetDefault("crawl.request_delay", crawl.DefaultRequestDelay)
	v.SetDefault("export.output_dir", defaultOutputDir)
	v.SetDefault("export.format", string(types.FormatCSV))
	v.SetDefault("search.max_papers", s2.DefaultMaxPapers)
	v.SetDefault("search.limit", s2.MaxPageSize)
	v.SetDefault("render.top_authors", 20)
	v.SetDefault("render.min_collaborations", 2)
}

// loadConfig assembles the stage configurations from v. Zero flag values
// leave the configured or default value in place.
func loadConfig(v *viper.Viper) types.Config {
	var cfg types.Config

	cfg.Fetch = types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   nonZeroDuration(v, "fetch.timeout", s2.DefaultTimeout),
			UserAgent: v.GetString("fetch.user_agent"),
		},
		BaseURL:     v.GetString("fetch.base_url"),
		APIKey:      secrets.Resolve(v.GetString("fetch.api_key"), loadedSecrets, secrets.SemanticScholarKey, secrets.SemanticScholarEnv),
		MaxAttempts: nonZeroInt(v, "fetch.max_attempts", s2.DefaultMaxAttempts),
		BackoffBase: nonZeroDuration(v, "fetch.backoff_base", s2.DefaultBackoffBase),
		BackoffCap:  nonZeroDuration(v, "fetch.backoff_cap", s2.DefaultBackoffCap),
	}

	cfg.Crawl = types.CrawlConfig{
		MaxDepth:     v.GetInt("crawl.max_depth"),
		Direction:    types.Direction(v.GetString("crawl.direction")),
		RequestDelay: nonZeroDuration(v, "crawl.request_delay", crawl.DefaultRequestDelay),
	}

	outputDir := v.GetString("export.output_dir")
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	cfg.Export = types.ExportConfig{
		OutputDir: outputDir,
		Format:    types.ExportFormat(v.GetString("export.format")),
	}

	cfg.Search = types.SearchConfig{
		Limit:        v.GetInt("search.limit"),
		MaxPapers:    nonZeroInt(v, "search.max_papers", s2.DefaultMaxPapers),
		RequestDelay: nonZeroDuration(v, "crawl.request_delay", s2.DefaultSearchDelay),
	}

	cfg.Render = types.RenderConfig{
		TopAuthors:        v.GetInt("render.top_authors"),
		MinCollaborations: v.GetInt("render.min_collaborations"),
	}
	return cfg
}

// nonZeroDuration reads key, falling back to def when a bound flag left
// it at zero.
func nonZeroDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return def
}

func nonZeroInt(v *viper.Viper, key string, def int) int {
	if n := v.GetInt(key); n > 0 {
		return n
	}
	return def
}
