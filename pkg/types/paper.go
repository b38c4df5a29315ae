// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

const (
	// UnknownTitle replaces a missing title in a fetched record.
	UnknownTitle = "Unknown"

	// UnknownAuthor replaces an author entry that carries no name.
	UnknownAuthor = "Unknown Author"
)

// PaperRecord holds the metadata kept for one paper in a citation network.
// A record is created the first time its identifier is fetched and is not
// modified afterwards.
type PaperRecord struct {
	// ID is the Semantic Scholar paper identifier.
	ID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title ("Unknown" when the API returns none).
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, nil when unknown.
	Year *int `json:"year" yaml:"year"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// URL is the paper's Semantic Scholar page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Edge records that Source cites Target. Edges always read "cites",
// whichever direction the traversal followed to discover them.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// PaperGraph is a citation network: a node mapping keyed by paper ID plus
// the ordered list of edges discovered during traversal. Edge endpoints that
// were never expanded may be absent from Papers.
type PaperGraph struct {
	Papers map[string]PaperRecord `json:"papers" yaml:"papers"`
	Edges  []Edge                 `json:"connections" yaml:"connections"`
}

// NewPaperGraph returns an empty graph ready for insertion.
func NewPaperGraph() *PaperGraph {
	return &PaperGraph{Papers: make(map[string]PaperRecord)}
}

// AddPaper inserts or refreshes the record stored under rec.ID.
func (g *PaperGraph) AddPaper(rec PaperRecord) {
	if g.Papers == nil {
		g.Papers = make(map[string]PaperRecord)
	}
	g.Papers[rec.ID] = rec
}

// AddEdge appends a source-cites-target edge. Duplicates are kept.
func (g *PaperGraph) AddEdge(source, target string) {
	g.Edges = append(g.Edges, Edge{Source: source, Target: target})
}

// Has reports whether id is a node of the graph.
func (g *PaperGraph) Has(id string) bool {
	_, ok := g.Papers[id]
	return ok
}

// Len returns the number of papers.
func (g *PaperGraph) Len() int { return len(g.Papers) }

// IsEmpty reports whether the graph holds no papers.
func (g *PaperGraph) IsEmpty() bool { return len(g.Papers) == 0 }

// PaperIDs returns the node identifiers in sorted order.
func (g *PaperGraph) PaperIDs() []string {
	ids := make([]string, 0, len(g.Papers))
	for id := range g.Papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolvedEdges returns the edges whose endpoints are both nodes of the graph.
func (g *PaperGraph) ResolvedEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if g.Has(e.Source) && g.Has(e.Target) {
			out = append(out, e)
		}
	}
	return out
}
