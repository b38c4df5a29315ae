// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package viz

import (
	"github.com/pdiddy/citegraph/pkg/types"
)

const (
	NodePaper  = "paper"
	NodeAuthor = "author"

	labelRunes = 20
)

// CitationGraph converts g into drawable form. Every paper becomes a node
// labelled with its shortened title; only edges whose endpoints are both
// papers of g are kept.
func CitationGraph(g *types.PaperGraph) *GraphData {
	data := &GraphData{Name: "Citation Network", Directed: true}
	if g == nil {
		return data
	}

	for _, id := range g.PaperIDs() {
		rec := g.Papers[id]
		n := Node{ID: id, Type: NodePaper, Label: shortTitle(rec.Title), Title: rec.Title}
		if rec.Year != nil {
			n.Year = *rec.Year
		}
		data.Nodes = append(data.Nodes, n)
	}
	for _, e := range g.ResolvedEdges() {
		data.Edges = append(data.Edges, Edge{Source: e.Source, Target: e.Target})
	}
	return data
}

// AuthorGraph converts cg into drawable form. Nodes are the authors that
// take part in at least one pair, sized by paper count; edges carry the
// collaboration count as weight. Apply collab.Filter first to limit the
// drawing to the most prolific authors.
func AuthorGraph(cg types.CollaborationGraph) *GraphData {
	data := &GraphData{Name: "Author Collaboration Network"}

	inPair := make(map[string]bool)
	for p := range cg.Collaborations {
		inPair[p.A] = true
		inPair[p.B] = true
	}
	for _, a := range cg.Authors() {
		if !inPair[a] {
			continue
		}
		data.Nodes = append(data.Nodes, Node{
			ID:    a,
			Type:  NodeAuthor,
			Label: a,
			Size:  len(cg.AuthorPapers[a]),
		})
	}
	for _, p := range cg.Pairs() {
		data.Edges = append(data.Edges, Edge{Source: p.A, Target: p.B, Weight: cg.Collaborations[p]})
	}
	return data
}

// shortTitle keeps the first 20 characters of a title followed by "...".
func shortTitle(title string) string {
	if title == "" {
		return types.UnknownTitle
	}
	r := []rune(title)
	if len(r) > labelRunes {
		r = r[:labelRunes]
	}
	return string(r) + "..."
}
