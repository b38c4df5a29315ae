// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/citegraph/pkg/types"
)

var corpusHeader = []string{
	"paper_id", "title", "year", "venue", "authors", "citation_count",
	"influential_citation_count", "fields_of_study", "publication_types", "abstract",
}

// CorpusDocument is the structured form of a corpus search result.
type CorpusDocument struct {
	Meta   `yaml:",inline"`
	Query  string              `json:"query,omitempty" yaml:"query,omitempty"`
	Total  int                 `json:"total" yaml:"total"`
	Papers []types.CorpusPaper `json:"papers" yaml:"papers"`
}

// WriteCorpus saves search results to <base>_corpus.<format> in the
// exporter's output directory. SQLite is not supported for corpus output.
func (e *Exporter) WriteCorpus(base, query string, papers []types.CorpusPaper) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(e.dir, base+"_corpus."+string(e.format))

	switch e.format {
	case types.FormatCSV:
		rows := make([][]string, 0, len(papers))
		for _, p := range papers {
			year := ""
			if p.Year != nil {
				year = strconv.Itoa(*p.Year)
			}
			rows = append(rows, []string{
				p.PaperID, p.Title, year, p.Venue,
				strings.Join(p.Authors, authorSep),
				strconv.Itoa(p.CitationCount),
				strconv.Itoa(p.InfluentialCitationCount),
				strings.Join(p.FieldsOfStudy, authorSep),
				strings.Join(p.PublicationTypes, authorSep),
				p.Abstract,
			})
		}
		if err := writeCSVFile(path, corpusHeader, rows); err != nil {
			return "", err
		}
	case types.FormatJSON, types.FormatYAML:
		if papers == nil {
			papers = []types.CorpusPaper{}
		}
		doc := CorpusDocument{Meta: e.meta(), Query: query, Total: len(papers), Papers: papers}
		if err := writeDocument(path, doc); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %q for corpus output", ErrUnsupportedFormat, e.format)
	}

	fmt.Fprintf(e.log, "saved %d papers to %s\n", len(papers), path)
	return path, nil
}

// ReadCorpus loads a corpus document written in JSON or YAML form.
func ReadCorpus(path string) (CorpusDocument, error) {
	var doc CorpusDocument
	err := readDocument(path, &doc)
	return doc, err
}
