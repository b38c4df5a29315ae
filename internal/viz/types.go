// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package viz renders citation and collaboration networks as Graphviz DOT
// and Cytoscape.js JSON.
package viz

// GraphData contains all data needed to render one network.
type GraphData struct {
	// Name is the graph title.
	Name string `json:"name"`

	// Directed is true for citation networks.
	Directed bool `json:"directed"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a paper or an author.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "paper" or "author"
	Label string `json:"label"`

	// Paper-specific fields (for tooltips)
	Title string `json:"title,omitempty"`
	Year  int    `json:"year,omitempty"`

	// Size is the author's paper count; zero for papers.
	Size int `json:"size,omitempty"`
}

// Edge is a citation (source cites target) or a weighted collaboration.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
