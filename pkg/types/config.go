package types

import "time"

// HTTPConfig holds shared HTTP settings used by every client that makes
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-tools/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search provider client.
type SearchConfig struct {
	// Endpoint is the provider search URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// APIKey is the bearer token. It may be empty at start-up; a missing
	// key is reported when a tool first needs it.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxResultsCap bounds the numResults a caller may request (default 20).
	MaxResultsCap int `json:"max_results_cap" yaml:"max_results_cap" mapstructure:"max_results_cap"`

	// MaxRetries is the number of retries on HTTP 429 (default 0, a single
	// attempt per call).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// InterQueryDelay is the pause between consecutive sub-question
	// searches (default 0).
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay" mapstructure:"inter_query_delay"`
}

// ResearchConfig holds defaults for the research operations.
type ResearchConfig struct {
	// MaxSearches is the default cap on sub-questions searched (default 5).
	MaxSearches int `json:"max_searches" yaml:"max_searches" mapstructure:"max_searches"`

	// DeepResults is the default numResults for deep research (default 3).
	DeepResults int `json:"deep_results" yaml:"deep_results" mapstructure:"deep_results"`

	// SearchResults is the default numResults for a simple search (default 5).
	SearchResults int `json:"search_results" yaml:"search_results" mapstructure:"search_results"`
}

// FetchMode selects the content fetching strategy.
type FetchMode string

const (
	FetchProxy  FetchMode = "proxy"
	FetchDirect FetchMode = "direct"
)

// FetchConfig holds settings for page content fetching.
type FetchConfig struct {
	// Mode is proxy (content-extraction proxy) or direct (local readability).
	Mode FetchMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// ProxyBase is the content-extraction proxy base URL.
	ProxyBase string `json:"proxy_base" yaml:"proxy_base" mapstructure:"proxy_base"`

	// MaxChars truncates extracted text (default 100000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	// APIKey is an optional bearer token for the proxy.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// StoreConfig holds settings for the tool-call store.
type StoreConfig struct {
	// DataDir contains research-tools.db and the export files.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Disabled turns off recording of tool calls.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// ServerConfig holds settings for the HTTP tool server.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// CORSOrigins lists browser origins allowed to call the server.
	// Empty disables CORS handling.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`
}

// Config groups all settings.
type Config struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Research ResearchConfig `json:"research" yaml:"research" mapstructure:"research"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}

const (
	DefaultSearchEndpoint = "https://api.tavily.com/search"
	DefaultProxyBase      = "https://r.jina.ai"
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "research-tools/0.1",
		},
		Search: SearchConfig{
			Endpoint:      DefaultSearchEndpoint,
			MaxResultsCap: 20,
		},
		Research: ResearchConfig{
			MaxSearches:   5,
			DeepResults:   3,
			SearchResults: 5,
		},
		Fetch: FetchConfig{
			Mode:      FetchProxy,
			ProxyBase: DefaultProxyBase,
			MaxChars:  100000,
		},
		Store: StoreConfig{
			DataDir: "data",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Normalize replaces zero values with defaults.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = d.HTTP.Timeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = d.HTTP.UserAgent
	}
	if c.Search.Endpoint == "" {
		c.Search.Endpoint = d.Search.Endpoint
	}
	if c.Search.MaxResultsCap <= 0 {
		c.Search.MaxResultsCap = d.Search.MaxResultsCap
	}
	if c.Search.MaxRetries < 0 {
		c.Search.MaxRetries = 0
	}
	if c.Research.MaxSearches <= 0 {
		c.Research.MaxSearches = d.Research.MaxSearches
	}
	if c.Research.DeepResults <= 0 {
		c.Research.DeepResults = d.Research.DeepResults
	}
	if c.Research.SearchResults <= 0 {
		c.Research.SearchResults = d.Research.SearchResults
	}
	if c.Fetch.Mode == "" {
		c.Fetch.Mode = d.Fetch.Mode
	}
	if c.Fetch.ProxyBase == "" {
		c.Fetch.ProxyBase = d.Fetch.ProxyBase
	}
	if c.Fetch.MaxChars <= 0 {
		c.Fetch.MaxChars = d.Fetch.MaxChars
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = d.Store.DataDir
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
}
