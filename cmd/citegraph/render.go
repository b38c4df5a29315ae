// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/collab"
	"github.com/pdiddy/citegraph/internal/export"
	"github.com/pdiddy/citegraph/internal/viz"
	"github.com/pdiddy/citegraph/pkg/types"
)

const (
	graphCitation = "citation"
	graphAuthor   = "author"

	asDOT       = "dot"
	asCytoscape = "cytoscape"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a saved network as Graphviz DOT or Cytoscape.js JSON",
	Long: `Render reads a citation network saved by crawl (CSV pair, JSON, YAML, or
SQLite) and writes a drawing of either the citation network or the derived
author collaboration network.

Only edges between papers present in the network are drawn. The author
network keeps the --top authors with the most papers and the pairs with at
least --min-collaborations shared papers.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("papers", "", "papers file (_papers.csv, _network.json/.yaml, or .db)")
	renderCmd.Flags().String("connections", "", "connections CSV (required with a papers CSV)")
	renderCmd.Flags().String("graph", graphCitation, "network to draw: citation or author")
	renderCmd.Flags().String("as", asDOT, "output syntax: dot or cytoscape")
	renderCmd.Flags().String("output", "", "output file (default stdout)")
	renderCmd.Flags().Int("top", 0, "author network: keep this many authors (default from config, 20)")
	renderCmd.Flags().Int("min-collaborations", 0, "author network: minimum shared papers per pair (default from config, 2)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	papers, _ := cmd.Flags().GetString("papers")
	if papers == "" {
		return fmt.Errorf("--papers is required")
	}
	connections, _ := cmd.Flags().GetString("connections")
	graphKind, _ := cmd.Flags().GetString("graph")
	as, _ := cmd.Flags().GetString("as")
	if as != asDOT && as != asCytoscape {
		return fmt.Errorf("--as must be %q or %q, got %q", asDOT, asCytoscape, as)
	}

	renderCfg := loadConfig(viper.GetViper()).Render
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		renderCfg.TopAuthors = top
	}
	if minCollab, _ := cmd.Flags().GetInt("min-collaborations"); minCollab > 0 {
		renderCfg.MinCollaborations = minCollab
	}

	g, err := export.ReadGraph(papers, connections)
	if err != nil {
		return err
	}

	var data *viz.GraphData
	switch graphKind {
	case graphCitation:
		data = viz.CitationGraph(g)
	case graphAuthor:
		data = authorDrawing(collab.Extract(g), renderCfg)
	default:
		return fmt.Errorf("--graph must be %q or %q, got %q", graphCitation, graphAuthor, graphKind)
	}
	if data.IsEmpty() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: no nodes to draw in the %s network\n", graphKind)
	}

	body, err := encodeDrawing(data, as)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "rendering saved to %s\n", output)
	return nil
}

func authorDrawing(cg types.CollaborationGraph, cfg types.RenderConfig) *viz.GraphData {
	return viz.AuthorGraph(collab.Filter(cg, cfg.TopAuthors, cfg.MinCollaborations))
}

func encodeDrawing(data *viz.GraphData, as string) ([]byte, error) {
	if as == asCytoscape {
		return data.ToCytoscapeJSON()
	}
	return []byte(data.ToDOT()), nil
}

// writeRenderings saves DOT and Cytoscape drawings of both networks next
// to the exported data.
func writeRenderings(w io.Writer, dir, base string, g *types.PaperGraph, cg types.CollaborationGraph, cfg types.RenderConfig) error {
	drawings := []struct {
		suffix string
		data   *viz.GraphData
	}{
		{"_visual", viz.CitationGraph(g)},
		{"_author_visual", authorDrawing(cg, cfg)},
	}

	for _, d := range drawings {
		if d.data.IsEmpty() {
			fmt.Fprintf(w, "warning: nothing to draw for %s%s\n", base, d.suffix)
			continue
		}
		for _, as := range []string{asDOT, asCytoscape} {
			body, err := encodeDrawing(d.data, as)
			if err != nil {
				return err
			}
			ext := ".dot"
			if as == asCytoscape {
				ext = ".cyjs"
			}
			path := filepath.Join(dir, base+d.suffix+ext)
			if err := os.WriteFile(path, body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(w, "rendering saved to %s\n", path)
		}
	}
	return nil
}
