// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package s2

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/citegraph/internal/httputil"
	"github.com/pdiddy/citegraph/pkg/types"
)

// CorpusFields is the field selection for corpus search.
const CorpusFields = "paperId,title,abstract,year,venue,publicationTypes,authors,citationCount,influentialCitationCount,fieldsOfStudy"

const (
	// MaxPageSize is the largest page the search endpoint accepts.
	MaxPageSize = 100

	DefaultMaxPapers   = 1000
	DefaultSearchDelay = 1 * time.Second
)

// CorpusQuery holds the search text and structured filters.
type CorpusQuery struct {
	// Query is the free-text search string; may be empty when filters are set.
	Query string

	// FieldsOfStudy filters by field (e.g. "Computer Science").
	FieldsOfStudy []string

	// PublicationTypes filters by type (e.g. "Conference", "JournalArticle").
	PublicationTypes []string

	// YearFrom and YearTo bound the publication year; zero means open.
	YearFrom int
	YearTo   int
}

// IsEmpty reports whether the query has neither text nor filters.
func (q CorpusQuery) IsEmpty() bool {
	return q.Query == "" && len(q.FieldsOfStudy) == 0 && len(q.PublicationTypes) == 0 &&
		q.YearFrom == 0 && q.YearTo == 0
}

// SearchCorpus pages through the search endpoint using offset/limit until
// cfg.MaxPapers papers are collected, the API returns an empty batch, or
// the reported total is reached. Pages are spaced by cfg.RequestDelay. If a
// page fails after retries, the papers collected so far are returned along
// with the error.
func (c *Client) SearchCorpus(ctx context.Context, q CorpusQuery, cfg types.SearchConfig) ([]types.CorpusPaper, error) {
	if q.IsEmpty() {
		return nil, fmt.Errorf("empty corpus query: provide search text or a filter")
	}

	maxPapers := cfg.MaxPapers
	if maxPapers <= 0 {
		maxPapers = DefaultMaxPapers
	}
	pageSize := cfg.Limit
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	throttle := httputil.NewThrottle(delay)

	var papers []types.CorpusPaper
	offset := 0
	for len(papers) < maxPapers {
		if err := httputil.Wait(ctx, throttle); err != nil {
			return papers, err
		}

		limit := pageSize
		if remaining := maxPapers - len(papers); remaining < limit {
			limit = remaining
		}

		page, err := c.searchPage(ctx, q, offset, limit)
		if err != nil {
			fmt.Fprintf(c.log, "warning: search page at offset %d failed: %v\n", offset, err)
			return papers, err
		}
		if c.metrics != nil {
			c.metrics.SearchPages.Inc()
		}
		if len(page.Data) == 0 {
			break
		}

		for _, sp := range page.Data {
			papers = append(papers, sp.corpusPaper())
		}
		offset += len(page.Data)
		fmt.Fprintf(c.log, "fetched %d papers (offset %d)\n", len(papers), offset)

		if page.Total > 0 && offset >= page.Total {
			break
		}
	}

	if len(papers) > maxPapers {
		papers = papers[:maxPapers]
	}
	return papers, nil
}

func (c *Client) searchPage(ctx context.Context, q CorpusQuery, offset, limit int) (*searchResponse, error) {
	params := buildSearchParams(q, offset, limit)
	reqURL := c.baseURL + "/paper/search?" + params.Encode()

	return getJSON[searchResponse](ctx, c, reqURL)
}

func buildSearchParams(q CorpusQuery, offset, limit int) url.Values {
	params := url.Values{
		"query":  {q.Query},
		"fields": {CorpusFields},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	if len(q.FieldsOfStudy) > 0 {
		params.Set("fieldsOfStudy", strings.Join(q.FieldsOfStudy, ","))
	}
	if len(q.PublicationTypes) > 0 {
		params.Set("publicationTypes", strings.Join(q.PublicationTypes, ","))
	}
	if yr := buildYearRange(q.YearFrom, q.YearTo); yr != "" {
		params.Set("year", yr)
	}
	return params
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2015-2025").
func buildYearRange(from, to int) string {
	switch {
	case from > 0 && to > 0:
		return fmt.Sprintf("%d-%d", from, to)
	case from > 0:
		return fmt.Sprintf("%d-", from)
	case to > 0:
		return fmt.Sprintf("-%d", to)
	default:
		return ""
	}
}

// Semantic Scholar search JSON structures.
type searchResponse struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Next   *int          `json:"next"`
	Data   []searchPaper `json:"data"`
}

type searchPaper struct {
	PaperID                  string   `json:"paperId"`
	Title                    string   `json:"title"`
	Abstract                 string   `json:"abstract"`
	Year                     *int     `json:"year"`
	Venue                    string   `json:"venue"`
	PublicationTypes         []string `json:"publicationTypes"`
	Authors                  []Author `json:"authors"`
	CitationCount            int      `json:"citationCount"`
	InfluentialCitationCount int      `json:"influentialCitationCount"`
	FieldsOfStudy            []string `json:"fieldsOfStudy"`
}

func (sp searchPaper) corpusPaper() types.CorpusPaper {
	cp := types.CorpusPaper{
		PaperID:                  sp.PaperID,
		Title:                    sp.Title,
		Abstract:                 sp.Abstract,
		Year:                     sp.Year,
		Venue:                    sp.Venue,
		PublicationTypes:         sp.PublicationTypes,
		CitationCount:            sp.CitationCount,
		InfluentialCitationCount: sp.InfluentialCitationCount,
		FieldsOfStudy:            sp.FieldsOfStudy,
	}
	for _, a := range sp.Authors {
		if a.Name != nil && *a.Name != "" {
			cp.Authors = append(cp.Authors, *a.Name)
		}
	}
	return cp
}
