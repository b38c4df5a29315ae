// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citegraph CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/metrics"
	"github.com/pdiddy/citegraph/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// runMetrics collects counters for the current invocation.
	runMetrics = metrics.New()
)

// rootCmd is the base command for the citegraph CLI.
var rootCmd = &cobra.Command{
	Use:   "citegraph",
	Short: "Build citation and author collaboration networks from Semantic Scholar",
	Long: `citegraph crawls the Semantic Scholar Graph API breadth-first from a root
paper and records the citation network it finds, then derives the author
collaboration network from the papers' author lists.

Networks are exported as CSV, JSON, YAML, or SQLite and can be rendered as
Graphviz DOT or Cytoscape.js JSON. The search command pages through the
corpus search endpoint with field, type, and year filters.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadDotEnv(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./citegraph.yaml or ~/.config/citegraph/citegraph.yaml)")
	pf.String("api-key", "", "Semantic Scholar API key (default: $SEMANTIC_SCHOLAR_API_KEY or .secrets/semantic-scholar-api-key)")
	pf.Int("max-attempts", 0, "attempts per lookup before giving up (default 20)")
	pf.Duration("timeout", 0, "HTTP request timeout (default 15s)")
	pf.Duration("backoff-base", 0, "base delay for exponential backoff (default 1s)")
	pf.Duration("backoff-cap", 0, "maximum single backoff wait (default 60s)")
	pf.Duration("request-delay", 0, "spacing between consecutive requests (default 1s)")
	pf.String("output-dir", "", "directory for output files (default output)")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on exit")

	for key, flag := range flagBindings {
		viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citegraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citegraph"))
		}
	}

	viper.SetEnvPrefix("CITEGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// writeMetrics saves the run's counters when --metrics-file is set.
func writeMetrics() {
	path, _ := rootCmd.PersistentFlags().GetString("metrics-file")
	if path == "" {
		return
	}
	if err := runMetrics.WriteTextfile(path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	writeMetrics()
	if err != nil {
		os.Exit(1)
	}
}
