// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway fronts the external tool servers (scholarly lookup,
// university directory scraping, web search, document parsing) behind a
// single invoke contract.
//
// The contract is deliberate: Invoke never returns an error. Transport
// failures, non-200 statuses, and unparseable bodies all decode to an empty
// Value, and callers treat a shape mismatch as "no data". Partial data from
// flaky tool servers must never fail the pipeline.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/httputil"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// Service ids understood by the gateway. Each maps to a tool-server base URL
// in GatewayConfig.Services.
const (
	ServiceScholar    = "scholar"
	ServiceUniversity = "university"
	ServiceSearch     = "search"
	ServiceDocument   = "document"
)

// Client invokes operations on tool servers over HTTP.
type Client struct {
	cfg    types.GatewayConfig
	client *http.Client
	log    *zap.Logger
}

// New returns a gateway client for the configured tool servers.
func New(cfg types.GatewayConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    logger,
	}
}

// invokeRequest is the wire request sent to a tool server.
type invokeRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// Value is a decoded tool result. The zero Value is empty.
type Value struct {
	raw json.RawMessage
}

// IsEmpty reports whether the tool produced no data.
func (v Value) IsEmpty() bool {
	return len(v.raw) == 0
}

// Decode unmarshals the result into dst. It reports false when the result
// is empty or its shape does not match dst; dst is then left unmodified.
func (v Value) Decode(dst any) bool {
	if v.IsEmpty() {
		return false
	}
	return json.Unmarshal(v.raw, dst) == nil
}

// Strings returns the result as a string slice, or nil on shape mismatch.
func (v Value) Strings() []string {
	var out []string
	if !v.Decode(&out) {
		return nil
	}
	return out
}

// Object returns the result as a generic object, or an empty map on shape
// mismatch.
func (v Value) Object() map[string]any {
	out := map[string]any{}
	v.Decode(&out)
	return out
}

// Invoke calls operation op on service svc with the given arguments and
// returns the decoded result. Any failure (unknown service, transport
// error, non-200 status, empty body) yields an empty Value. A 200 body
// that is not valid JSON is wrapped as {"raw": <text>} so callers see a
// shape mismatch rather than silence.
func (c *Client) Invoke(ctx context.Context, svc, op string, args map[string]any) Value {
	base, ok := c.cfg.Services[svc]
	if !ok || base == "" {
		c.log.Warn("gateway: service not configured", zap.String("service", svc), zap.String("op", op))
		return Value{}
	}

	body, err := json.Marshal(invokeRequest{Tool: op, Arguments: args})
	if err != nil {
		c.log.Warn("gateway: marshaling arguments", zap.String("op", op), zap.Error(err))
		return Value{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/invoke", bytes.NewReader(body))
	if err != nil {
		c.log.Warn("gateway: creating request", zap.String("op", op), zap.Error(err))
		return Value{}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		c.log.Warn("gateway: call failed",
			zap.String("service", svc), zap.String("op", op), zap.Error(err))
		return Value{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("gateway: tool server error",
			zap.String("service", svc), zap.String("op", op), zap.Int("status", resp.StatusCode))
		return Value{}
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("gateway: reading response", zap.String("op", op), zap.Error(err))
		return Value{}
	}
	if len(bytes.TrimSpace(text)) == 0 {
		return Value{}
	}

	if !json.Valid(text) {
		wrapped, _ := json.Marshal(map[string]string{"raw": string(text)})
		return Value{raw: wrapped}
	}
	return Value{raw: json.RawMessage(text)}
}

// Scholar returns the scholarly-graph service surface.
func (c *Client) Scholar() Scholar { return Scholar{c} }

// University returns the university-directory service surface.
func (c *Client) University() University { return University{c} }

// Search returns the web-search service surface.
func (c *Client) Search() Search { return Search{c} }

// Document returns the document-parsing service surface.
func (c *Client) Document() Document { return Document{c} }

// errMarker reports whether a tool result object carries an error field,
// which tool servers use to report scrape failures inside a 200 response.
func errMarker(obj map[string]any) bool {
	val, ok := obj["error"]
	if !ok {
		return false
	}
	return fmt.Sprint(val) != ""
}
