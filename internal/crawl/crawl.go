// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl builds citation networks by bounded-depth breadth-first
// traversal from a root paper. Traversal is strictly sequential: one lookup
// at a time, in FIFO order, spaced by a fixed inter-request delay.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gammazero/deque"

	"github.com/pdiddy/citegraph/internal/httputil"
	"github.com/pdiddy/citegraph/internal/metrics"
	"github.com/pdiddy/citegraph/internal/s2"
	"github.com/pdiddy/citegraph/pkg/types"
)

// DefaultRequestDelay spaces consecutive lookups to respect API rate limits.
const DefaultRequestDelay = 1 * time.Second

var (
	// ErrInvalidDirection is returned for a direction other than
	// "references" or "citations". No lookup is made.
	ErrInvalidDirection = errors.New("direction must be 'references' or 'citations'")

	// ErrRootUnavailable is returned when the root paper cannot be fetched.
	ErrRootUnavailable = errors.New("failed to fetch root paper")
)

// Fetcher looks up one paper. *s2.Client implements it.
type Fetcher interface {
	FetchPaper(ctx context.Context, id string) (*s2.PaperPayload, error)
}

// ParseDirection validates s as a traversal direction.
func ParseDirection(s string) (types.Direction, error) {
	switch d := types.Direction(s); d {
	case types.DirectionReferences, types.DirectionCitations:
		return d, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidDirection, s)
	}
}

// Stats summarizes one Build run.
type Stats struct {
	// Fetched counts successful lookups, the root included.
	Fetched int

	// Failed counts non-root lookups that failed and were skipped.
	Failed int

	// Edges is the number of edges recorded.
	Edges int
}

// Crawler runs traversals. It holds only the fetcher, the inter-request
// delay, and output sinks; all traversal state is local to Build, so one
// Crawler can run any number of independent builds.
type Crawler struct {
	fetcher Fetcher
	delay   time.Duration
	log     io.Writer
	metrics *metrics.Metrics
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithRequestDelay sets the spacing between consecutive lookups. Zero
// disables throttling.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Crawler) { c.delay = d }
}

// WithLogger sets the writer that receives progress lines.
func WithLogger(w io.Writer) Option {
	return func(c *Crawler) { c.log = w }
}

// WithMetrics records crawl counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Crawler) { c.metrics = m }
}

// New returns a Crawler that fetches through f.
func New(f Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: f,
		delay:   DefaultRequestDelay,
		log:     io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// queued is one work-queue entry.
type queued struct {
	id    string
	depth int
}

// Build fetches rootID and expands its connections breadth-first up to
// maxDepth hops in direction dir.
//
// Every identifier is fetched at most once. Edges always read "cites": for
// references the edge is current→connected, for citations it is recorded
// reversed as connected→current. A failed non-root lookup is logged and the
// node is skipped along with everything only reachable through it. If the
// root cannot be fetched, Build returns an empty graph and an error wrapping
// ErrRootUnavailable.
func (c *Crawler) Build(ctx context.Context, rootID string, maxDepth int, dir types.Direction) (*types.PaperGraph, Stats, error) {
	graph := types.NewPaperGraph()
	var stats Stats

	if _, err := ParseDirection(string(dir)); err != nil {
		return graph, stats, err
	}

	throttle := httputil.NewThrottle(c.delay)

	if err := httputil.Wait(ctx, throttle); err != nil {
		return graph, stats, err
	}
	rootData, err := c.fetcher.FetchPaper(ctx, rootID)
	if err != nil {
		fmt.Fprintf(c.log, "error: failed to fetch root paper %s: %v\n", rootID, err)
		return graph, stats, fmt.Errorf("%w %s: %w", ErrRootUnavailable, rootID, err)
	}
	stats.Fetched++
	c.addPaper(graph, rootData.Record(rootID), dir)

	var queue deque.Deque[queued]
	queue.PushBack(queued{id: rootID, depth: 0})
	seen := map[string]bool{rootID: true}

	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return graph, stats, err
		}

		cur := queue.PopFront()
		fmt.Fprintf(c.log, "processing paper %s at depth %d\n", cur.id, cur.depth)

		var data *s2.PaperPayload
		if cur.id == rootID {
			// The root was fetched before the loop; reuse it.
			data = rootData
		} else {
			if err := httputil.Wait(ctx, throttle); err != nil {
				return graph, stats, err
			}
			data, err = c.fetcher.FetchPaper(ctx, cur.id)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return graph, stats, ctxErr
				}
				fmt.Fprintf(c.log, "warning: failed to get data for paper %s, skipping\n", cur.id)
				stats.Failed++
				if c.metrics != nil {
					c.metrics.CrawlSkipped.Inc()
				}
				continue
			}
			stats.Fetched++
			c.addPaper(graph, data.Record(cur.id), dir)
		}

		if cur.depth >= maxDepth {
			continue
		}

		connections := data.Connections(dir)
		if len(connections) == 0 {
			fmt.Fprintf(c.log, "no %s found for paper %s\n", dir, cur.id)
			continue
		}

		for _, conn := range connections {
			next := conn.PaperID
			if next == "" {
				continue
			}
			if dir == types.DirectionReferences {
				graph.AddEdge(cur.id, next)
			} else {
				graph.AddEdge(next, cur.id)
			}
			if !seen[next] {
				seen[next] = true
				queue.PushBack(queued{id: next, depth: cur.depth + 1})
			}
		}
	}

	stats.Edges = len(graph.Edges)
	fmt.Fprintf(c.log, "processed %d papers with %d connections\n", graph.Len(), stats.Edges)
	return graph, stats, nil
}

func (c *Crawler) addPaper(g *types.PaperGraph, rec types.PaperRecord, dir types.Direction) {
	g.AddPaper(rec)
	if c.metrics != nil {
		c.metrics.CrawlPapers.WithLabelValues(string(dir)).Inc()
	}
}
