package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citegraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the Semantic Scholar fetch client.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the Graph API base (e.g. "https://api.semanticscholar.org/graph/v1").
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the total number of attempts per lookup (default 20).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BackoffBase is the delay unit for exponential backoff (default 1s).
	BackoffBase time.Duration `json:"backoff_base" yaml:"backoff_base"`

	// BackoffCap bounds a single backoff wait (default 60s).
	BackoffCap time.Duration `json:"backoff_cap" yaml:"backoff_cap"`
}

// Direction selects which connection list a crawl follows.
type Direction string

const (
	// DirectionReferences follows outgoing edges: papers the root cites.
	DirectionReferences Direction = "references"

	// DirectionCitations follows incoming edges: papers that cite the root.
	DirectionCitations Direction = "citations"
)

// CrawlConfig holds settings for citation network traversal.
type CrawlConfig struct {
	// MaxDepth bounds the breadth-first expansion (default 1).
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// Direction is "references" or "citations" (default citations).
	Direction Direction `json:"direction" yaml:"direction"`

	// RequestDelay is the minimum spacing between consecutive lookups (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// ExportFormat selects the on-disk representation of a network.
type ExportFormat string

const (
	FormatCSV    ExportFormat = "csv"
	FormatJSON   ExportFormat = "json"
	FormatYAML   ExportFormat = "yaml"
	FormatSQLite ExportFormat = "sqlite"
)

// ExportConfig holds settings for writing networks to disk.
type ExportConfig struct {
	// OutputDir is the directory export files are written to (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format is csv, json, yaml, or sqlite (default csv).
	Format ExportFormat `json:"format" yaml:"format"`
}

// SearchConfig holds settings for paginated corpus search.
type SearchConfig struct {
	// Limit is the page size per request; the API allows at most 100.
	Limit int `json:"limit" yaml:"limit"`

	// MaxPapers stops pagination once this many papers are collected (default 1000).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// RequestDelay is the minimum spacing between page requests (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// RenderConfig holds settings for author network rendering.
type RenderConfig struct {
	// TopAuthors keeps only the authors with the most papers (default 20).
	TopAuthors int `json:"top_authors" yaml:"top_authors"`

	// MinCollaborations drops pairs with fewer shared papers (default 2).
	MinCollaborations int `json:"min_collaborations" yaml:"min_collaborations"`
}

// Config groups all stage configurations, mirroring citegraph.yaml.
type Config struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Crawl  CrawlConfig  `json:"crawl" yaml:"crawl"`
	Export ExportConfig `json:"export" yaml:"export"`
	Search SearchConfig `json:"search" yaml:"search"`
	Render RenderConfig `json:"render" yaml:"render"`
}
