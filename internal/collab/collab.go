// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collab derives author collaboration networks from citation
// networks. Derivation reads only the paper records; edges are ignored.
package collab

import (
	"sort"
	"strings"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Extract builds the collaboration graph of g. Papers are visited in sorted
// ID order so each author's paper list is deterministic. Every unordered
// pair of distinct, non-blank author names on a paper adds one to that
// pair's count. Blank names are skipped; a name repeated on one paper is
// counted once and never pairs with itself.
func Extract(g *types.PaperGraph) types.CollaborationGraph {
	cg := types.NewCollaborationGraph()
	if g == nil {
		return cg
	}

	for _, id := range g.PaperIDs() {
		authors := distinctAuthors(g.Papers[id].Authors)
		for _, a := range authors {
			cg.AuthorPapers[a] = append(cg.AuthorPapers[a], id)
		}
		for i := 0; i < len(authors); i++ {
			for j := i + 1; j < len(authors); j++ {
				cg.Collaborations[types.NewAuthorPair(authors[i], authors[j])]++
			}
		}
	}
	return cg
}

// distinctAuthors drops blank names and repeats, keeping first-seen order.
func distinctAuthors(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Filter reduces cg to a drawable subnetwork. Pairs whose count is below
// minCollaborations are dropped; when no pair meets the threshold every
// pair is used instead. Of the remaining pairs only those joining two of
// the topAuthors authors with the most papers (ties broken by name) are
// kept, and authors left without any pair are dropped. topAuthors <= 0
// keeps every author.
func Filter(cg types.CollaborationGraph, topAuthors, minCollaborations int) types.CollaborationGraph {
	pairs := make(map[types.AuthorPair]int)
	for p, n := range cg.Collaborations {
		if n >= minCollaborations {
			pairs[p] = n
		}
	}
	if len(pairs) == 0 {
		pairs = cg.Collaborations
	}

	top := make(map[string]bool)
	for _, a := range TopAuthors(cg, topAuthors) {
		top[a] = true
	}

	out := types.NewCollaborationGraph()
	for p, n := range pairs {
		if !top[p.A] || !top[p.B] {
			continue
		}
		out.Collaborations[p] = n
		out.AuthorPapers[p.A] = cg.AuthorPapers[p.A]
		out.AuthorPapers[p.B] = cg.AuthorPapers[p.B]
	}
	return out
}

// TopAuthors returns up to n author names ordered by descending paper
// count, ties broken by name. n <= 0 returns every author.
func TopAuthors(cg types.CollaborationGraph, n int) []string {
	authors := cg.Authors()
	sort.SliceStable(authors, func(i, j int) bool {
		return len(cg.AuthorPapers[authors[i]]) > len(cg.AuthorPapers[authors[j]])
	})
	if n > 0 && len(authors) > n {
		authors = authors[:n]
	}
	return authors
}
