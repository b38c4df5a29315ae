// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/internal/crawl"
	"github.com/pdiddy/citegraph/internal/export"
	"github.com/pdiddy/citegraph/internal/s2"
	"github.com/pdiddy/citegraph/pkg/types"
)

// resetFlags restores every flag of c and its subcommands to its default
// so one test's flags do not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args against an optional fake API server and
// returns the captured output.
func execute(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	viper.Set("fetch.base_url", apiURL)
	t.Cleanup(func() {
		viper.Set("fetch.base_url", "")
		resetFlags(rootCmd)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// fakeAPI serves a three-paper network: root cites a and b, a cites b.
func fakeAPI(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	papers := map[string]string{
		"root": `{"paperId":"root","title":"Root Paper","year":2020,"authors":[{"name":"Alice"},{"name":"Bob"}],"references":[{"paperId":"a"},{"paperId":"b"}],"citations":[]}`,
		"a":    `{"paperId":"a","title":"Paper A","authors":[{"name":"Alice"},{"name":"Carol"}],"references":[{"paperId":"b"}],"citations":[{"paperId":"root"}]}`,
		"b":    `{"paperId":"b","title":"Paper B","authors":[{"name":"Alice"},{"name":"Bob"}],"references":[],"citations":[{"paperId":"root"},{"paperId":"a"}]}`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		body, ok := papers[strings.TrimPrefix(r.URL.Path, "/paper/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestCrawlInvalidDirection(t *testing.T) {
	var calls int32
	ts := fakeAPI(t, &calls)

	_, err := execute(t, ts.URL, "crawl", "root", "--direction", "sideways", "--output-dir", t.TempDir())
	assert.ErrorIs(t, err, crawl.ErrInvalidDirection)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCrawlInvalidFormat(t *testing.T) {
	var calls int32
	ts := fakeAPI(t, &calls)

	_, err := execute(t, ts.URL, "crawl", "root", "--format", "xml", "--output-dir", t.TempDir())
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCrawlNegativeDepth(t *testing.T) {
	_, err := execute(t, "", "crawl", "root", "--depth=-1")
	assert.ErrorContains(t, err, "depth must be >= 0")
}

func TestCrawlWritesCSV(t *testing.T) {
	var calls int32
	ts := fakeAPI(t, &calls)
	dir := t.TempDir()

	out, err := execute(t, ts.URL, "crawl", "root",
		"--depth", "2", "--direction", "references",
		"--request-delay", "1ms", "--output-dir", dir, "--render")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Contains(t, out, "processed 3 papers with 3 connections")

	base := export.BaseName("root", types.DirectionReferences)
	papers, connections := export.PaperFiles(dir, base)
	g, err := export.ReadCSV(papers, connections)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "root"}, g.PaperIDs())
	assert.Len(t, g.Edges, 3)

	for _, name := range []string{base + "_visual.dot", base + "_visual.cyjs", base + "_author_visual.dot"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestCrawlWritesSQLite(t *testing.T) {
	var calls int32
	ts := fakeAPI(t, &calls)
	dir := t.TempDir()

	_, err := execute(t, ts.URL, "crawl", "root",
		"--depth", "1", "--direction", "references", "--format", "sqlite",
		"--request-delay", "1ms", "--output-dir", dir)
	require.NoError(t, err)

	g, cg, err := export.ReadSQLite(filepath.Join(dir, export.BaseName("root", types.DirectionReferences)+".db"))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, cg.Count("Alice", "Bob"))
	assert.Equal(t, 1, cg.Count("Carol", "Alice"))
}

func TestCrawlFollowsConfiguredDefaults(t *testing.T) {
	t.Setenv("CITEGRAPH_CRAWL_DIRECTION", "references")
	t.Setenv("CITEGRAPH_CRAWL_MAX_DEPTH", "2")
	t.Setenv("CITEGRAPH_EXPORT_FORMAT", "json")

	var calls int32
	ts := fakeAPI(t, &calls)
	dir := t.TempDir()

	out, err := execute(t, ts.URL, "crawl", "root", "--request-delay", "1ms", "--output-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Contains(t, out, "building references network for paper root with depth 2")

	g, _, err := export.ReadNetwork(filepath.Join(dir, export.BaseName("root", types.DirectionReferences)+"_network.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "root"}, g.PaperIDs())
	assert.Len(t, g.Edges, 3)
}

func TestCrawlFlagsOverrideConfig(t *testing.T) {
	t.Setenv("CITEGRAPH_CRAWL_DIRECTION", "references")
	t.Setenv("CITEGRAPH_CRAWL_MAX_DEPTH", "2")
	t.Setenv("CITEGRAPH_EXPORT_FORMAT", "json")

	var calls int32
	ts := fakeAPI(t, &calls)
	dir := t.TempDir()

	_, err := execute(t, ts.URL, "crawl", "root", "--depth", "0", "--format", "csv",
		"--request-delay", "1ms", "--output-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	papers, connections := export.PaperFiles(dir, export.BaseName("root", types.DirectionReferences))
	g, err := export.ReadCSV(papers, connections)
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, g.PaperIDs())
}

func TestCrawlConfiguredDirectionValidated(t *testing.T) {
	t.Setenv("CITEGRAPH_CRAWL_DIRECTION", "sideways")

	var calls int32
	ts := fakeAPI(t, &calls)

	_, err := execute(t, ts.URL, "crawl", "root", "--output-dir", t.TempDir())
	assert.ErrorIs(t, err, crawl.ErrInvalidDirection)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCrawlRootFailure(t *testing.T) {
	var calls int32
	ts := fakeAPI(t, &calls)
	dir := t.TempDir()

	out, err := execute(t, ts.URL, "crawl", "missing", "--max-attempts", "1", "--output-dir", dir)
	assert.ErrorIs(t, err, crawl.ErrRootUnavailable)
	assert.ErrorIs(t, err, s2.ErrExhausted)
	assert.Contains(t, out, "failed to fetch data for paper missing after 1 attempts")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCollabFromCSV(t *testing.T) {
	var calls int32
	ts := fakeAPI(t, &calls)
	dir := t.TempDir()

	_, err := execute(t, ts.URL, "crawl", "root", "--depth", "1", "--direction", "references",
		"--request-delay", "1ms", "--output-dir", dir)
	require.NoError(t, err)

	base := export.BaseName("root", types.DirectionReferences)
	papers, connections := export.PaperFiles(dir, base)
	out, err := execute(t, "", "collab", "--papers", papers, "--connections", connections)
	require.NoError(t, err)
	assert.Contains(t, out, "authors: 3, collaborations: 2")

	cg, _, err := export.ReadAuthorNetwork(filepath.Join(dir, base+"_author_network.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, cg.Count("Bob", "Alice"))
	assert.Equal(t, []string{"a", "b", "root"}, cg.AuthorPapers["Alice"])
}

func TestCollabRejectsCSVOutput(t *testing.T) {
	_, err := execute(t, "", "collab", "--papers", "x_papers.csv", "--format", "csv")
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestRenderDOT(t *testing.T) {
	dir := t.TempDir()
	g := types.NewPaperGraph()
	g.AddPaper(types.PaperRecord{ID: "p1", Title: "First", Authors: []string{"Alice", "Bob"}})
	g.AddPaper(types.PaperRecord{ID: "p2", Title: "Second", Authors: []string{"Alice", "Bob"}})
	g.AddEdge("p1", "p2")
	g.AddEdge("p1", "elsewhere")
	papers, connections := export.PaperFiles(dir, "net")
	require.NoError(t, export.WriteCSV(papers, connections, g))

	out, err := execute(t, "", "render", "--papers", papers, "--connections", connections)
	require.NoError(t, err)
	assert.Contains(t, out, `"p1" -> "p2";`)
	assert.NotContains(t, out, "elsewhere")

	out, err = execute(t, "", "render", "--papers", papers, "--connections", connections, "--graph", "author")
	require.NoError(t, err)
	assert.Contains(t, out, `"Alice" -- "Bob" [weight=2`)

	_, err = execute(t, "", "render", "--papers", papers, "--connections", connections, "--as", "png")
	assert.Error(t, err)
}

func TestSearchRequiresQuery(t *testing.T) {
	_, err := execute(t, "", "search")
	assert.ErrorContains(t, err, "query or filter required")

	_, err = execute(t, "", "search", "--query", "x", "--from-year", "2020", "--to-year", "2010")
	assert.ErrorContains(t, err, "is after")
}

func TestSearchWritesCorpus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/search", r.URL.Path)
		assert.Equal(t, "Computer Science", r.URL.Query().Get("fieldsOfStudy"))
		fmt.Fprint(w, `{"total":2,"offset":0,"data":[{"paperId":"s1","title":"One"},{"paperId":"s2","title":"Two"}]}`)
	}))
	t.Cleanup(ts.Close)
	dir := t.TempDir()

	_, err := execute(t, ts.URL, "search", "--field-of-study", "Computer Science",
		"--format", "json", "--request-delay", "1ms", "--output-dir", dir)
	require.NoError(t, err)

	doc, err := export.ReadCorpus(filepath.Join(dir, "search_corpus.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Total)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "citegraph dev\n", out)
}

func TestNetworkBase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"out/semantic_scholar_x_citations_papers.csv", "semantic_scholar_x_citations"},
		{"semantic_scholar_x_references_network.json", "semantic_scholar_x_references"},
		{"/tmp/net.db", "net"},
		{"other.txt", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, networkBase(tt.in))
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := loadConfig(v)

	assert.Equal(t, s2.DefaultMaxAttempts, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Fetch.BackoffCap)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, types.DirectionCitations, cfg.Crawl.Direction)
	assert.Equal(t, time.Second, cfg.Crawl.RequestDelay)
	assert.Equal(t, "output", cfg.Export.OutputDir)
	assert.Equal(t, 20, cfg.Render.TopAuthors)
	assert.Equal(t, 2, cfg.Render.MinCollaborations)
}

func TestLoadConfigOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("fetch.max_attempts", 3)
	v.Set("fetch.backoff_base", "250ms")
	v.Set("fetch.api_key", "sk-config")

	cfg := loadConfig(v)
	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetch.BackoffBase)
	assert.Equal(t, "sk-config", cfg.Fetch.APIKey)
}
