// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/pkg/types"
)

func intPtr(n int) *int { return &n }

func sampleGraph() *types.PaperGraph {
	g := types.NewPaperGraph()
	g.AddPaper(types.PaperRecord{
		ID: "root", Title: "Attention, Is All You Need", Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
		Year: intPtr(2017), Venue: "NeurIPS", URL: "https://example.org/root",
	})
	g.AddPaper(types.PaperRecord{
		ID: "a", Title: "Quoted \"title\"", Authors: []string{"Noam Shazeer", "", "Unknown Author"},
	})
	g.AddPaper(types.PaperRecord{ID: "b", Title: types.UnknownTitle, Authors: []string{}})
	g.AddEdge("root", "a")
	g.AddEdge("root", "b")
	g.AddEdge("a", "ghost")
	g.AddEdge("root", "a")
	return g
}

func sampleCollab() types.CollaborationGraph {
	cg := types.NewCollaborationGraph()
	cg.Collaborations[types.NewAuthorPair("Noam Shazeer", "Ashish Vaswani")] = 1
	cg.Collaborations[types.NewAuthorPair("Noam Shazeer", "Unknown Author")] = 1
	cg.AuthorPapers["Ashish Vaswani"] = []string{"root"}
	cg.AuthorPapers["Noam Shazeer"] = []string{"a", "root"}
	cg.AuthorPapers["Unknown Author"] = []string{"a"}
	return cg
}

func sortedEdges(edges []types.Edge) []types.Edge {
	out := append([]types.Edge(nil), edges...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func newExporter(t *testing.T, format types.ExportFormat, opts ...Option) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	e, err := New(types.ExportConfig{OutputDir: dir, Format: format}, opts...)
	require.NoError(t, err)
	return e, dir
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    types.ExportFormat
		wantErr bool
	}{
		{"csv", types.FormatCSV, false},
		{"JSON", types.FormatJSON, false},
		{" yaml ", types.FormatYAML, false},
		{"sqlite", types.FormatSQLite, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(types.ExportConfig{Format: "parquet"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewDefaults(t *testing.T) {
	e, err := New(types.ExportConfig{})
	require.NoError(t, err)
	assert.Equal(t, types.FormatCSV, e.Format())
	_, err = uuid.Parse(e.RunID())
	assert.NoError(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "semantic_scholar_204e30_citations", BaseName("204e30", types.DirectionCitations))
	assert.Equal(t, "semantic_scholar_DOI:10.1038_nature_references", BaseName("DOI:10.1038/nature", types.DirectionReferences))
}

func TestCSVRoundTrip(t *testing.T) {
	e, dir := newExporter(t, types.FormatCSV)
	g := sampleGraph()

	paths, err := e.Write(context.Background(), "net", g, sampleCollab())
	require.NoError(t, err)
	papers, connections := PaperFiles(dir, "net")
	assert.Equal(t, []string{papers, connections}, paths)

	got, err := ReadCSV(papers, connections)
	require.NoError(t, err)

	assert.Equal(t, g.PaperIDs(), got.PaperIDs())
	for _, id := range g.PaperIDs() {
		assert.Equal(t, g.Papers[id].Authors, got.Papers[id].Authors, "authors of %s", id)
		assert.Equal(t, g.Papers[id].Title, got.Papers[id].Title)
		assert.Equal(t, g.Papers[id].Year, got.Papers[id].Year)
	}
	assert.Equal(t, sortedEdges(g.Edges), sortedEdges(got.Edges))
}

func TestCSVLayout(t *testing.T) {
	e, dir := newExporter(t, types.FormatCSV)
	_, err := e.Write(context.Background(), "net", sampleGraph(), types.NewCollaborationGraph())
	require.NoError(t, err)

	papers, connections := PaperFiles(dir, "net")
	data, err := os.ReadFile(papers)
	require.NoError(t, err)
	assert.Contains(t, string(data), "paper_id,title,authors,year,venue,url\n")
	assert.Contains(t, string(data), `root,"Attention, Is All You Need",Ashish Vaswani; Noam Shazeer,2017,NeurIPS,https://example.org/root`)

	data, err = os.ReadFile(connections)
	require.NoError(t, err)
	assert.Equal(t, "source,target\nroot,a\nroot,b\na,ghost\nroot,a\n", string(data))
}

func TestReadCSVYearParsing(t *testing.T) {
	dir := t.TempDir()
	papers := filepath.Join(dir, "p.csv")
	connections := filepath.Join(dir, "c.csv")
	require.NoError(t, os.WriteFile(papers, []byte(
		"paper_id,title,authors,year,venue,url\n"+
			"x,X, Alice ;Bob ,1999,,\n"+
			"y,Y,,n/a,,\n"+
			"z,Z,Carol,2020.0,,\n"), 0o644))
	require.NoError(t, os.WriteFile(connections, []byte("source,target\nx,y\n"), 0o644))

	g, err := ReadCSV(papers, connections)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, g.Papers["x"].Authors)
	assert.Equal(t, 1999, *g.Papers["x"].Year)
	assert.Empty(t, g.Papers["y"].Authors)
	assert.Nil(t, g.Papers["y"].Year)
	assert.Nil(t, g.Papers["z"].Year)
	assert.Equal(t, []types.Edge{{Source: "x", Target: "y"}}, g.Edges)
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Ada Lovelace", []string{"Ada Lovelace"}},
		{"Ada Lovelace; Charles Babbage", []string{"Ada Lovelace", "Charles Babbage"}},
		{"Smith;Jr; Bob", []string{"Smith;Jr", "Bob"}},
		{" Ada ;  Bob ", []string{"Ada", "Bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitAuthors(tt.in))
		})
	}
}

func TestCSVRoundTripKeepsBareSemicolon(t *testing.T) {
	e, dir := newExporter(t, types.FormatCSV)
	g := types.NewPaperGraph()
	g.AddPaper(types.PaperRecord{ID: "p", Title: "T", Authors: []string{"Smith;Jr", "Bob"}})

	_, err := e.Write(context.Background(), "net", g, types.NewCollaborationGraph())
	require.NoError(t, err)

	got, err := ReadCSV(PaperFiles(dir, "net"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith;Jr", "Bob"}, got.Papers["p"].Authors)
}

func TestReadCSVMissingColumn(t *testing.T) {
	dir := t.TempDir()
	papers := filepath.Join(dir, "p.csv")
	require.NoError(t, os.WriteFile(papers, []byte("id,title\nx,X\n"), 0o644))
	_, err := ReadCSV(papers, filepath.Join(dir, "c.csv"))
	assert.ErrorContains(t, err, "missing column")
}

func TestStructuredRoundTrip(t *testing.T) {
	for _, format := range []types.ExportFormat{types.FormatJSON, types.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			e, dir := newExporter(t, format, WithRunID("run-1"))
			g, cg := sampleGraph(), sampleCollab()

			paths, err := e.Write(context.Background(), "net", g, cg)
			require.NoError(t, err)
			require.Len(t, paths, 2)
			assert.Equal(t, filepath.Join(dir, "net_network."+string(format)), paths[0])
			assert.Equal(t, filepath.Join(dir, "net_author_network."+string(format)), paths[1])

			got, meta, err := ReadNetwork(paths[0])
			require.NoError(t, err)
			assert.Equal(t, "run-1", meta.RunID)
			assert.Equal(t, g.PaperIDs(), got.PaperIDs())
			assert.Equal(t, g.Edges, got.Edges)
			for _, id := range g.PaperIDs() {
				assert.Equal(t, g.Papers[id].Authors, got.Papers[id].Authors)
				assert.Equal(t, g.Papers[id].Year, got.Papers[id].Year)
			}

			gotCG, meta, err := ReadAuthorNetwork(paths[1])
			require.NoError(t, err)
			assert.Equal(t, "run-1", meta.RunID)
			assert.Equal(t, cg.Collaborations, gotCG.Collaborations)
			assert.Equal(t, cg.AuthorPapers, gotCG.AuthorPapers)
		})
	}
}

func TestAuthorDocumentOrdering(t *testing.T) {
	e, _ := newExporter(t, types.FormatJSON)
	cg := sampleCollab()
	cg.Collaborations[types.NewAuthorPair("Ashish Vaswani", "Zed")] = 4

	doc := e.authorDocument(cg)
	require.Len(t, doc.Collaborations, 3)
	assert.Equal(t, Collaboration{Authors: [2]string{"Ashish Vaswani", "Zed"}, Count: 4}, doc.Collaborations[0])
}

func TestSQLiteRoundTrip(t *testing.T) {
	e, dir := newExporter(t, types.FormatSQLite, WithRunID("run-db"))
	g, cg := sampleGraph(), sampleCollab()

	paths, err := e.Write(context.Background(), "net", g, cg)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "net.db")}, paths)

	gotG, gotCG, err := ReadSQLite(paths[0])
	require.NoError(t, err)
	assert.Equal(t, g.PaperIDs(), gotG.PaperIDs())
	assert.Equal(t, g.Edges, gotG.Edges)
	assert.Equal(t, g.Papers["root"], gotG.Papers["root"])
	assert.Nil(t, gotG.Papers["a"].Year)
	assert.Equal(t, cg.Collaborations, gotCG.Collaborations)
	assert.Equal(t, cg.AuthorPapers, gotCG.AuthorPapers)

	meta, err := ReadSQLiteMeta(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "run-db", meta.RunID)
	assert.WithinDuration(t, time.Now(), meta.GeneratedAt, time.Minute)
}

func TestSQLiteReplacesExistingFile(t *testing.T) {
	e, _ := newExporter(t, types.FormatSQLite)
	_, err := e.Write(context.Background(), "net", sampleGraph(), sampleCollab())
	require.NoError(t, err)

	small := types.NewPaperGraph()
	small.AddPaper(types.PaperRecord{ID: "only", Title: "Only"})
	paths, err := e.Write(context.Background(), "net", small, types.NewCollaborationGraph())
	require.NoError(t, err)

	g, cg, err := ReadSQLite(paths[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, g.PaperIDs())
	assert.Empty(t, g.Edges)
	assert.True(t, cg.IsEmpty())
}

func TestReadGraphDispatch(t *testing.T) {
	g := sampleGraph()
	for _, format := range []types.ExportFormat{types.FormatCSV, types.FormatJSON, types.FormatSQLite} {
		t.Run(string(format), func(t *testing.T) {
			e, _ := newExporter(t, format)
			paths, err := e.Write(context.Background(), "net", g, sampleCollab())
			require.NoError(t, err)

			connections := ""
			if len(paths) > 1 && format == types.FormatCSV {
				connections = paths[1]
			}
			got, err := ReadGraph(paths[0], connections)
			require.NoError(t, err)
			assert.Equal(t, g.PaperIDs(), got.PaperIDs())
			assert.Len(t, got.Edges, len(g.Edges))
		})
	}

	_, err := ReadGraph("papers.csv", "")
	assert.Error(t, err)
	_, err = ReadGraph("papers.txt", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteEmptyGraph(t *testing.T) {
	var log bytes.Buffer
	e, dir := newExporter(t, types.FormatCSV, WithLogger(&log))

	paths, err := e.Write(context.Background(), "net", types.NewPaperGraph(), types.NewCollaborationGraph())
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Contains(t, log.String(), "warning: no paper data to save")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteAuthorNetwork(t *testing.T) {
	e, dir := newExporter(t, types.FormatCSV)
	path, err := e.WriteAuthorNetwork("net", sampleCollab())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "net_author_network.json"), path)

	cg, _, err := ReadAuthorNetwork(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCollab().Collaborations, cg.Collaborations)
}

func TestWriteCorpus(t *testing.T) {
	papers := []types.CorpusPaper{
		{PaperID: "p1", Title: "One", Year: intPtr(2021), Authors: []string{"A", "B"}, CitationCount: 10, FieldsOfStudy: []string{"Computer Science"}},
		{PaperID: "p2", Title: "Two", Abstract: "line one\nline two"},
	}

	t.Run("json", func(t *testing.T) {
		e, dir := newExporter(t, types.FormatJSON)
		path, err := e.WriteCorpus("search", "graphs", papers)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "search_corpus.json"), path)

		doc, err := ReadCorpus(path)
		require.NoError(t, err)
		assert.Equal(t, "graphs", doc.Query)
		assert.Equal(t, 2, doc.Total)
		assert.Equal(t, papers, doc.Papers)
	})

	t.Run("csv", func(t *testing.T) {
		e, _ := newExporter(t, types.FormatCSV)
		path, err := e.WriteCorpus("search", "graphs", papers)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "p1,One,2021,,A; B,10,0,Computer Science,,\n")
	})

	t.Run("sqlite unsupported", func(t *testing.T) {
		e, _ := newExporter(t, types.FormatSQLite)
		_, err := e.WriteCorpus("search", "graphs", papers)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
