// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oracle wraps the text-generation service used for candidate
// filtering, research-area summarization, and match ranking.
package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/advisor-match/pkg/types"
)

const defaultModel = "gemini-2.5-flash"

// Backend generates free text from a prompt. Stages that consume oracle
// output expect a JSON payload embedded somewhere in the text and tolerate
// anything else. Tests supply a Func.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Backend interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate implements Backend.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Gemini is the production Backend, calling the Gemini API directly.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini returns a Gemini backend for the configured model.
func NewGemini(ctx context.Context, cfg types.OracleConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle API key is required (set .secrets/gemini-api-key)")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends the prompt and returns the raw response text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating text: %w", err)
	}
	return result.Text(), nil
}
