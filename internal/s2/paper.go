// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package s2

import "github.com/pdiddy/citegraph/pkg/types"

// PaperPayload is the lookup response for PaperFields.
type PaperPayload struct {
	PaperID    string     `json:"paperId"`
	Title      string     `json:"title"`
	Authors    []Author   `json:"authors"`
	Year       *int       `json:"year"`
	Venue      string     `json:"venue"`
	URL        string     `json:"url"`
	Citations  []PaperRef `json:"citations"`
	References []PaperRef `json:"references"`
}

// Author is an entry of a payload's author list. Name is nil when the API
// omits it.
type Author struct {
	AuthorID string  `json:"authorId,omitempty"`
	Name     *string `json:"name"`
}

// PaperRef is one entry of a citations or references list. PaperID is
// empty for entries Semantic Scholar could not resolve.
type PaperRef struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title,omitempty"`
}

// Record converts the payload to the record stored under id. The id passed
// in is the identifier the crawl used, which may differ from PaperID when
// the lookup went through an alias such as "DOI:...".
func (p *PaperPayload) Record(id string) types.PaperRecord {
	rec := types.PaperRecord{
		ID:      id,
		Title:   p.Title,
		Authors: make([]string, 0, len(p.Authors)),
		Year:    p.Year,
		Venue:   p.Venue,
		URL:     p.URL,
	}
	if rec.Title == "" {
		rec.Title = types.UnknownTitle
	}
	for _, a := range p.Authors {
		if a.Name == nil {
			rec.Authors = append(rec.Authors, types.UnknownAuthor)
			continue
		}
		rec.Authors = append(rec.Authors, *a.Name)
	}
	return rec
}

// Connections returns the list named by dir: References for
// DirectionReferences, Citations for DirectionCitations.
func (p *PaperPayload) Connections(dir types.Direction) []PaperRef {
	switch dir {
	case types.DirectionReferences:
		return p.References
	case types.DirectionCitations:
		return p.Citations
	default:
		return nil
	}
}
