// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for citegraph: paper
// records, citation and collaboration graphs, and stage configuration.
package types

// CorpusPaper is one paper returned by a corpus search. It carries the
// bibliometric fields the lookup endpoint does not.
type CorpusPaper struct {
	// PaperID is the Semantic Scholar paper identifier.
	PaperID string `json:"paperId" yaml:"paper_id"`

	// Title is the paper title as returned by the API.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, empty when the API withholds it.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year, nil when unknown.
	Year *int `json:"year" yaml:"year"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// PublicationTypes lists types such as "Conference" or "JournalArticle".
	PublicationTypes []string `json:"publicationTypes,omitempty" yaml:"publication_types,omitempty"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// CitationCount is the number of papers citing this one.
	CitationCount int `json:"citationCount" yaml:"citation_count"`

	// InfluentialCitationCount counts citations Semantic Scholar marks influential.
	InfluentialCitationCount int `json:"influentialCitationCount" yaml:"influential_citation_count"`

	// FieldsOfStudy lists the paper's fields (e.g. "Computer Science").
	FieldsOfStudy []string `json:"fieldsOfStudy,omitempty" yaml:"fields_of_study,omitempty"`
}
