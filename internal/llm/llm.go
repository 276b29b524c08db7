// Package llm provides the inference clients the quote engine talks to.
// Two drivers ship: an OpenAI-compatible chat-completions client over plain
// net/http and a Gemini client over the official genai SDK. Both perform a
// single attempt per call with the caller's fixed temperature; retries are
// deliberately absent so repeated failures surface instead of resampling.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Client is the driver contract. The engine consumes this through its own
// Generator interface; the method set matches.
type Client interface {
	Name() string
	Generate(ctx context.Context, system, prompt string, temperature float32) (string, error)
}

// Config selects and configures a driver.
type Config struct {
	// Provider is "openai" (default, covers any OpenAI-compatible endpoint)
	// or "gemini".
	Provider string

	// Endpoint overrides the provider's default API base URL.
	Endpoint string

	APIKey  string
	Model   string
	Timeout time.Duration
}

// New builds the configured driver.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
