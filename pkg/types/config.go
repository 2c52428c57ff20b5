// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "advisor-match/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatewayConfig holds settings for the tool gateway, which fronts the
// external scraping and lookup services.
type GatewayConfig struct {
	HTTPConfig `yaml:",inline"`

	// Services maps a service id (scholar, university, search, document)
	// to the base URL of its tool server.
	Services map[string]string `json:"services" yaml:"services"`

	// Token is an optional bearer token sent to every tool server.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// OracleConfig holds settings for the text-generation oracle.
type OracleConfig struct {
	// Model is the generation model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CacheConfig holds settings for the professor cache and run store.
type CacheConfig struct {
	// Path is the SQLite database file (default "advisor-match.db").
	Path string `json:"path" yaml:"path"`

	// TTL is the age beyond which a cached professor is treated as absent
	// (default 7 days). The boundary is exclusive: a record aged exactly
	// TTL is stale.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// MatchConfig holds settings for the matching pipeline.
type MatchConfig struct {
	// MaxCandidates caps the candidate list passed to enrichment
	// (default 30). Larger discovery output is filtered down.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// EnrichConcurrency bounds in-flight enrichments (default 20).
	// Uncapped fan-out against the tool servers is disallowed.
	EnrichConcurrency int `json:"enrich_concurrency" yaml:"enrich_concurrency"`

	// PublicationLimit is the per-professor publication fetch cap (default 20).
	PublicationLimit int `json:"publication_limit" yaml:"publication_limit"`

	// PublicationYears restricts fetched publications to the last N years
	// (default 5).
	PublicationYears int `json:"publication_years" yaml:"publication_years"`

	// MaxMatches caps the ranked result list (default 10).
	MaxMatches int `json:"max_matches" yaml:"max_matches"`
}

// ToolServerConfig describes one containerized tool server managed by
// the "servers" commands.
type ToolServerConfig struct {
	// Image is the container image to run.
	Image string `json:"image" yaml:"image"`

	// Port is the host port mapped to the server.
	Port int `json:"port" yaml:"port"`

	// ContainerPort is the port the server listens on inside the
	// container (default 8000).
	ContainerPort int `json:"container_port,omitempty" yaml:"container_port,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Gateway GatewayConfig               `json:"gateway" yaml:"gateway"`
	Oracle  OracleConfig                `json:"oracle" yaml:"oracle"`
	Cache   CacheConfig                 `json:"cache" yaml:"cache"`
	Match   MatchConfig                 `json:"match" yaml:"match"`
	Servers map[string]ToolServerConfig `json:"servers,omitempty" yaml:"servers,omitempty"`
}
