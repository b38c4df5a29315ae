// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/collab"
	"github.com/pdiddy/citegraph/internal/export"
	"github.com/pdiddy/citegraph/pkg/types"
)

var collabCmd = &cobra.Command{
	Use:   "collab",
	Short: "Derive the author collaboration network from a saved citation network",
	Long: `Collab reads a citation network saved by crawl and counts, for every pair
of authors, the papers they wrote together. The result is written next to
the papers file (or to --output-dir) as <base>_author_network.json (or
.yaml) and the strongest collaborations are printed.

--top and --min-collaborations restrict the saved network to the most
prolific authors and their stronger ties; by default every pair is kept.`,
	RunE: runCollab,
}

func init() {
	collabCmd.Flags().String("papers", "", "papers file (_papers.csv, _network.json/.yaml, or .db)")
	collabCmd.Flags().String("connections", "", "connections CSV (required with a papers CSV)")
	collabCmd.Flags().String("format", string(types.FormatJSON), "output format: json or yaml")
	collabCmd.Flags().Int("top", 0, "keep only this many authors with the most papers (0 keeps all)")
	collabCmd.Flags().Int("min-collaborations", 0, "drop pairs with fewer shared papers")
	collabCmd.Flags().Int("show", 10, "number of strongest collaborations to print")

	rootCmd.AddCommand(collabCmd)
}

func runCollab(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	papers, _ := cmd.Flags().GetString("papers")
	if papers == "" {
		return fmt.Errorf("--papers is required")
	}
	connections, _ := cmd.Flags().GetString("connections")
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if format != types.FormatJSON && format != types.FormatYAML {
		return fmt.Errorf("%w: collab writes json or yaml, got %q", export.ErrUnsupportedFormat, format)
	}

	g, err := export.ReadGraph(papers, connections)
	if err != nil {
		return err
	}
	if g.IsEmpty() {
		fmt.Fprintln(out, "warning: no papers in citation network, cannot extract author collaborations")
	}

	cg := collab.Extract(g)
	top, _ := cmd.Flags().GetInt("top")
	minCollab, _ := cmd.Flags().GetInt("min-collaborations")
	if top > 0 || minCollab > 0 {
		cg = collab.Filter(cg, top, minCollab)
	}

	cfg := loadConfig(viper.GetViper()).Export
	cfg.Format = format
	if !cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = filepath.Dir(papers)
	}
	exporter, err := export.New(cfg, export.WithLogger(out))
	if err != nil {
		return err
	}
	if _, err := exporter.WriteAuthorNetwork(networkBase(papers), cg); err != nil {
		return err
	}

	show, _ := cmd.Flags().GetInt("show")
	printCollaborations(cmd, cg, show)
	return nil
}

// networkBase strips the suffix crawl adds to its output files.
func networkBase(path string) string {
	name := filepath.Base(path)
	for _, suffix := range []string{"_papers.csv", "_network.json", "_network.yaml", "_network.yml", ".db"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func printCollaborations(cmd *cobra.Command, cg types.CollaborationGraph, n int) {
	out := cmd.OutOrStdout()
	pairs := cg.Pairs()
	fmt.Fprintf(out, "\nauthors: %d, collaborations: %d\n", len(cg.AuthorPapers), len(pairs))
	if n <= 0 || len(pairs) == 0 {
		return
	}
	if len(pairs) > n {
		pairs = pairs[:n]
	}

	fmt.Fprintf(out, "\n%-30s  %-30s  %s\n", "Author", "Author", "Papers")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, p := range pairs {
		fmt.Fprintf(out, "%-30s  %-30s  %d\n", truncate(p.A, 30), truncate(p.B, 30), cg.Collaborations[p])
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
