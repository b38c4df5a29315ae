// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/citegraph/pkg/types"
)

var (
	papersHeader      = []string{"paper_id", "title", "authors", "year", "venue", "url"}
	connectionsHeader = []string{"source", "target"}
)

// authorSep joins author names in the papers table.
const authorSep = "; "

// WriteCSV writes the papers table (sorted by ID) and the connections edge
// list (in discovery order).
func WriteCSV(papersPath, connectionsPath string, g *types.PaperGraph) error {
	rows := make([][]string, 0, g.Len())
	for _, id := range g.PaperIDs() {
		rec := g.Papers[id]
		year := ""
		if rec.Year != nil {
			year = strconv.Itoa(*rec.Year)
		}
		rows = append(rows, []string{id, rec.Title, strings.Join(rec.Authors, authorSep), year, rec.Venue, rec.URL})
	}
	if err := writeCSVFile(papersPath, papersHeader, rows); err != nil {
		return err
	}

	rows = make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		rows = append(rows, []string{e.Source, e.Target})
	}
	return writeCSVFile(connectionsPath, connectionsHeader, rows)
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV rebuilds a PaperGraph from a papers table and a connections edge
// list. Authors are split on "; " and trimmed; the year is kept only when it
// is all digits.
//
// The authors column is lossy in two cases: a name that itself contains
// "; " comes back as two names, and a paper whose only author is blank
// comes back with no authors. Use the JSON, YAML, or SQLite formats when
// author lists must survive exactly.
func ReadCSV(papersPath, connectionsPath string) (*types.PaperGraph, error) {
	g := types.NewPaperGraph()

	err := readCSVFile(papersPath, papersHeader, func(row map[string]string) {
		g.AddPaper(types.PaperRecord{
			ID:      row["paper_id"],
			Title:   row["title"],
			Authors: splitAuthors(row["authors"]),
			Year:    parseYear(row["year"]),
			Venue:   row["venue"],
			URL:     row["url"],
		})
	})
	if err != nil {
		return nil, err
	}

	err = readCSVFile(connectionsPath, connectionsHeader, func(row map[string]string) {
		g.AddEdge(row["source"], row["target"])
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// readCSVFile calls fn for every data row keyed by header name. Columns
// named in required must be present in the header.
func readCSVFile(path string, required []string, fn func(map[string]string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		row := make(map[string]string, len(index))
		for col, i := range index {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		fn(row)
	}
}

func splitAuthors(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, authorSep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseYear(s string) *int {
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &y
}
