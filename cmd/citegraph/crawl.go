// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/collab"
	"github.com/pdiddy/citegraph/internal/crawl"
	"github.com/pdiddy/citegraph/internal/export"
	"github.com/pdiddy/citegraph/internal/s2"
	"github.com/pdiddy/citegraph/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <paper-id>",
	Short: "Build the citation network around a paper",
	Long: `Crawl fetches a root paper from Semantic Scholar and expands its
references or citations breadth-first up to --depth hops. Unset --depth,
--direction, and --format fall back to crawl.max_depth, crawl.direction, and
export.format from the config file or CITEGRAPH_* environment. Every paper is
fetched at most once; failed lookups are retried with exponential backoff
and, except for the root, skipped when retries run out.

The citation network is written to --output-dir as
semantic_scholar_<paper-id>_<direction> in the chosen --format. JSON, YAML,
and SQLite output also carry the author collaboration network.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().Int("depth", 1, "maximum traversal depth")
	crawlCmd.Flags().String("direction", string(types.DirectionCitations), "follow 'references' or 'citations'")
	crawlCmd.Flags().String("format", string(types.FormatCSV), "output format: csv, json, yaml, or sqlite")
	crawlCmd.Flags().Bool("render", false, "also write DOT and Cytoscape renderings of both networks")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	rootID := args[0]
	cfg := loadConfig(viper.GetViper())

	dirValue := string(cfg.Crawl.Direction)
	if cmd.Flags().Changed("direction") {
		dirValue, _ = cmd.Flags().GetString("direction")
	}
	dir, err := crawl.ParseDirection(dirValue)
	if err != nil {
		return err
	}
	formatValue := string(cfg.Export.Format)
	if cmd.Flags().Changed("format") {
		formatValue, _ = cmd.Flags().GetString("format")
	}
	format, err := export.ParseFormat(formatValue)
	if err != nil {
		return err
	}
	depth := cfg.Crawl.MaxDepth
	if cmd.Flags().Changed("depth") {
		depth, _ = cmd.Flags().GetInt("depth")
	}
	if depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %d", depth)
	}
	cfg.Export.Format = format

	exporter, err := export.New(cfg.Export, export.WithLogger(out))
	if err != nil {
		return err
	}

	client := s2.NewClient(cfg.Fetch, s2.WithLogger(out), s2.WithMetrics(runMetrics))
	crawler := crawl.New(client,
		crawl.WithRequestDelay(cfg.Crawl.RequestDelay),
		crawl.WithLogger(out),
		crawl.WithMetrics(runMetrics),
	)

	fmt.Fprintf(out, "building %s network for paper %s with depth %d...\n", dir, rootID, depth)
	graph, stats, err := crawler.Build(cmd.Context(), rootID, depth, dir)
	if err != nil {
		return err
	}
	if graph.IsEmpty() {
		return fmt.Errorf("no valid paper data was retrieved for %s", rootID)
	}

	authors := collab.Extract(graph)

	base := export.BaseName(rootID, dir)
	if _, err := exporter.Write(cmd.Context(), base, graph, authors); err != nil {
		return err
	}

	if render, _ := cmd.Flags().GetBool("render"); render {
		if err := writeRenderings(out, cfg.Export.OutputDir, base, graph, authors, cfg.Render); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nfetched: %d, skipped: %d, connections: %d, authors: %d, collaborations: %d\n",
		stats.Fetched, stats.Failed, stats.Edges, len(authors.AuthorPapers), len(authors.Collaborations))
	fmt.Fprintf(out, "run id: %s\n", exporter.RunID())
	return nil
}
