// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegraph/pkg/types"
)

// NetworkDocument is the structured form of a citation network.
type NetworkDocument struct {
	Meta        `yaml:",inline"`
	Papers      map[string]types.PaperRecord `json:"papers" yaml:"papers"`
	Connections []types.Edge                 `json:"connections" yaml:"connections"`
}

// Collaboration is one weighted author pair.
type Collaboration struct {
	Authors [2]string `json:"authors" yaml:"authors,flow"`
	Count   int       `json:"count" yaml:"count"`
}

// AuthorNetworkDocument is the structured form of a collaboration network.
type AuthorNetworkDocument struct {
	Meta           `yaml:",inline"`
	Collaborations []Collaboration      `json:"collaborations" yaml:"collaborations"`
	AuthorPapers   map[string][]string `json:"author_papers" yaml:"author_papers"`
}

func (e *Exporter) networkDocument(g *types.PaperGraph) NetworkDocument {
	edges := g.Edges
	if edges == nil {
		edges = []types.Edge{}
	}
	return NetworkDocument{Meta: e.meta(), Papers: g.Papers, Connections: edges}
}

func (e *Exporter) authorDocument(cg types.CollaborationGraph) AuthorNetworkDocument {
	doc := AuthorNetworkDocument{
		Meta:           e.meta(),
		Collaborations: []Collaboration{},
		AuthorPapers:   cg.AuthorPapers,
	}
	if doc.AuthorPapers == nil {
		doc.AuthorPapers = map[string][]string{}
	}
	for _, p := range cg.Pairs() {
		doc.Collaborations = append(doc.Collaborations, Collaboration{
			Authors: [2]string{p.A, p.B},
			Count:   cg.Collaborations[p],
		})
	}
	return doc
}

// Graph returns the PaperGraph held by the document.
func (d NetworkDocument) Graph() *types.PaperGraph {
	g := types.NewPaperGraph()
	for id, rec := range d.Papers {
		if rec.ID == "" {
			rec.ID = id
		}
		g.AddPaper(rec)
	}
	g.Edges = append(g.Edges, d.Connections...)
	return g
}

// Graph returns the CollaborationGraph held by the document.
func (d AuthorNetworkDocument) Graph() types.CollaborationGraph {
	cg := types.NewCollaborationGraph()
	for _, c := range d.Collaborations {
		cg.Collaborations[types.NewAuthorPair(c.Authors[0], c.Authors[1])] += c.Count
	}
	for a, papers := range d.AuthorPapers {
		cg.AuthorPapers[a] = papers
	}
	return cg
}

// writeDocument marshals v as JSON or YAML according to the extension of
// path.
func writeDocument(path string, v any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return os.WriteFile(path, data, 0o644)
}

func readDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ReadNetwork loads a citation network written by Exporter.Write in JSON
// or YAML form.
func ReadNetwork(path string) (*types.PaperGraph, Meta, error) {
	var doc NetworkDocument
	if err := readDocument(path, &doc); err != nil {
		return nil, Meta{}, err
	}
	return doc.Graph(), doc.Meta, nil
}

// ReadAuthorNetwork loads a collaboration network written by Exporter.Write
// in JSON or YAML form.
func ReadAuthorNetwork(path string) (types.CollaborationGraph, Meta, error) {
	var doc AuthorNetworkDocument
	if err := readDocument(path, &doc); err != nil {
		return types.CollaborationGraph{}, Meta{}, err
	}
	return doc.Graph(), doc.Meta, nil
}

// ReadGraph loads a citation network from papersPath. A .csv path is read
// with ReadCSV and requires connectionsPath; JSON, YAML and SQLite files
// are self-contained.
func ReadGraph(papersPath, connectionsPath string) (*types.PaperGraph, error) {
	switch strings.ToLower(filepath.Ext(papersPath)) {
	case ".csv":
		if connectionsPath == "" {
			return nil, fmt.Errorf("a connections file is required with %s", papersPath)
		}
		return ReadCSV(papersPath, connectionsPath)
	case ".json", ".yaml", ".yml":
		g, _, err := ReadNetwork(papersPath)
		return g, err
	case ".db":
		g, _, err := ReadSQLite(papersPath)
		return g, err
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, papersPath)
	}
}
