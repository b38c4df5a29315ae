// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes citation and collaboration networks to flat files
// and reads them back. Supported formats are CSV (papers plus connections),
// JSON, YAML, and a single-file SQLite database.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/citegraph/pkg/types"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	papersSuffix        = "_papers.csv"
	connectionsSuffix   = "_connections.csv"
	networkSuffix       = "_network"
	authorNetworkSuffix = "_author_network"
)

// ParseFormat validates s as an export format. Matching is case-insensitive.
func ParseFormat(s string) (types.ExportFormat, error) {
	switch f := types.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want csv, json, yaml, or sqlite)", ErrUnsupportedFormat, s)
	}
}

// BaseName returns the file name prefix for a crawl of root in direction
// dir. Path separators in the identifier (DOIs, arXiv IDs) become
// underscores so the result is a single file name.
func BaseName(root string, dir types.Direction) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(root)
	return fmt.Sprintf("semantic_scholar_%s_%s", safe, dir)
}

// PaperFiles returns the CSV paths for base inside dir.
func PaperFiles(dir, base string) (papers, connections string) {
	prefix := filepath.Join(dir, base)
	return prefix + papersSuffix, prefix + connectionsSuffix
}

// Exporter writes one run's output files. Every structured file it writes
// carries the same run ID.
type Exporter struct {
	dir    string
	format types.ExportFormat
	runID  string
	now    func() time.Time
	log    io.Writer
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the writer that receives "saved" lines.
func WithLogger(w io.Writer) Option {
	return func(e *Exporter) { e.log = w }
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(e *Exporter) { e.runID = id }
}

// New returns an Exporter for cfg. An empty format defaults to CSV and an
// empty output directory to the working directory.
func New(cfg types.ExportConfig, opts ...Option) (*Exporter, error) {
	format := cfg.Format
	if format == "" {
		format = types.FormatCSV
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}

	e := &Exporter{
		dir:    dir,
		format: format,
		runID:  uuid.NewString(),
		now:    time.Now,
		log:    io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RunID returns the identifier stamped into structured exports.
func (e *Exporter) RunID() string { return e.runID }

// Format returns the configured export format.
func (e *Exporter) Format() types.ExportFormat { return e.format }

// Write saves g and cg under base in the configured format and returns the
// paths written. CSV output covers the citation network only; the other
// formats also carry the collaboration network.
func (e *Exporter) Write(ctx context.Context, base string, g *types.PaperGraph, cg types.CollaborationGraph) ([]string, error) {
	if g == nil || g.IsEmpty() {
		fmt.Fprintln(e.log, "warning: no paper data to save")
		return nil, nil
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	prefix := filepath.Join(e.dir, base)
	var paths []string

	switch e.format {
	case types.FormatCSV:
		papers, connections := PaperFiles(e.dir, base)
		if err := WriteCSV(papers, connections, g); err != nil {
			return nil, err
		}
		paths = []string{papers, connections}

	case types.FormatJSON, types.FormatYAML:
		ext := "." + string(e.format)
		network := prefix + networkSuffix + ext
		authors := prefix + authorNetworkSuffix + ext
		if err := writeDocument(network, e.networkDocument(g)); err != nil {
			return nil, err
		}
		if err := writeDocument(authors, e.authorDocument(cg)); err != nil {
			return nil, err
		}
		paths = []string{network, authors}

	case types.FormatSQLite:
		path := prefix + ".db"
		if err := WriteSQLite(ctx, path, e.meta(), g, cg); err != nil {
			return nil, err
		}
		paths = []string{path}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, e.format)
	}

	fmt.Fprintf(e.log, "data saved to %s\n", strings.Join(paths, " and "))
	return paths, nil
}

// WriteAuthorNetwork saves cg alone as <base>_author_network.{json,yaml}.
// CSV and SQLite exporters fall back to JSON.
func (e *Exporter) WriteAuthorNetwork(base string, cg types.CollaborationGraph) (string, error) {
	ext := ".json"
	if e.format == types.FormatYAML {
		ext = ".yaml"
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(e.dir, base+authorNetworkSuffix+ext)
	if err := writeDocument(path, e.authorDocument(cg)); err != nil {
		return "", err
	}
	fmt.Fprintf(e.log, "data saved to %s\n", path)
	return path, nil
}

func (e *Exporter) meta() Meta {
	return Meta{RunID: e.runID, GeneratedAt: e.now().UTC()}
}

// Meta identifies the run that produced an export.
type Meta struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}
