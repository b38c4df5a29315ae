// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// AuthorPair is an unordered pair of distinct author names. A is always the
// lexicographically smaller name so (x, y) and (y, x) produce the same key.
type AuthorPair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// NewAuthorPair returns the canonical pair for x and y.
func NewAuthorPair(x, y string) AuthorPair {
	if y < x {
		x, y = y, x
	}
	return AuthorPair{A: x, B: y}
}

// CollaborationGraph is the author co-authorship network derived from a
// PaperGraph. Collaborations counts the papers each pair co-authored;
// AuthorPapers lists the paper IDs of each author.
type CollaborationGraph struct {
	Collaborations map[AuthorPair]int  `json:"-" yaml:"-"`
	AuthorPapers   map[string][]string `json:"author_papers" yaml:"author_papers"`
}

// NewCollaborationGraph returns an empty graph.
func NewCollaborationGraph() CollaborationGraph {
	return CollaborationGraph{
		Collaborations: make(map[AuthorPair]int),
		AuthorPapers:   make(map[string][]string),
	}
}

// Count returns the number of papers x and y co-authored, in either order.
func (c CollaborationGraph) Count(x, y string) int {
	return c.Collaborations[NewAuthorPair(x, y)]
}

// IsEmpty reports whether the graph has no collaborations and no authors.
func (c CollaborationGraph) IsEmpty() bool {
	return len(c.Collaborations) == 0 && len(c.AuthorPapers) == 0
}

// Authors returns every author name that appears in a pair or in
// AuthorPapers, sorted.
func (c CollaborationGraph) Authors() []string {
	seen := make(map[string]bool, len(c.AuthorPapers))
	for a := range c.AuthorPapers {
		seen[a] = true
	}
	for p := range c.Collaborations {
		seen[p.A] = true
		seen[p.B] = true
	}
	names := make([]string, 0, len(seen))
	for a := range seen {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// Pairs returns the collaboration pairs sorted by descending count, then
// by name.
func (c CollaborationGraph) Pairs() []AuthorPair {
	pairs := make([]AuthorPair, 0, len(c.Collaborations))
	for p := range c.Collaborations {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		ci, cj := c.Collaborations[pairs[i]], c.Collaborations[pairs[j]]
		if ci != cj {
			return ci > cj
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}
