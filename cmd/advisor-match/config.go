// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/advisor-match/internal/store"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// pipelineConfig assembles the full configuration from the config file,
// environment, and loaded secrets. Every knob has a working default; only
// the tool-server endpoints and the Gemini key genuinely need configuring.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Gateway: types.GatewayConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationDefault("gateway.timeout", 60*time.Second),
				UserAgent: viper.GetString("gateway.user_agent"),
			},
			Services: viper.GetStringMapString("gateway.services"),
			Token:    secretDefault("tool-gateway-token", viper.GetString("gateway.token")),
		},
		Oracle: types.OracleConfig{
			Model:  viper.GetString("oracle.model"),
			APIKey: secretDefault("gemini-api-key", viper.GetString("oracle.api_key")),
		},
		Cache: types.CacheConfig{
			Path: viper.GetString("cache.path"),
			TTL:  durationDefault("cache.ttl", store.DefaultTTL),
		},
		Match: types.MatchConfig{
			MaxCandidates:     intDefault("match.max_candidates", 30),
			EnrichConcurrency: intDefault("match.enrich_concurrency", 20),
			PublicationLimit:  intDefault("match.publication_limit", 20),
			PublicationYears:  intDefault("match.publication_years", 5),
			MaxMatches:        intDefault("match.max_matches", 10),
		},
	}
	if viper.IsSet("servers") {
		_ = viper.UnmarshalKey("servers", &cfg.Servers)
	}
	return cfg
}

func intDefault(key string, fallback int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

func durationDefault(key string, fallback time.Duration) time.Duration {
	if v := viper.GetDuration(key); v > 0 {
		return v
	}
	return fallback
}
