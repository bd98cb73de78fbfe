// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/taails/internal/config"
	"github.com/jeranaias/taails/internal/ollama"
)

// ProbeTimeout bounds the startup reachability check against Ollama.
const ProbeTimeout = 3 * time.Second

// Selection is the delegate chosen at startup and how it was chosen.
type Selection struct {
	Delegate Delegate
	// Backend is the backend actually in use ("mock" after a fallback).
	Backend string
	// Model is the model name sent to the backend. Empty for the mock.
	Model string
	// FellBack is true when the configured backend was replaced by the mock.
	FellBack bool
	// Reason explains a fallback.
	Reason string
}

// Label is a short "backend · model" description for status lines.
func (s *Selection) Label() string {
	if s.Model == "" {
		return s.Backend
	}
	return s.Backend + " · " + s.Model
}

// NewOllamaClient builds an Ollama client from the [ollama] config section.
func NewOllamaClient(cfg *config.Config) *ollama.Client {
	return ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		Timeout:      time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		DefaultModel: cfg.Ollama.Model,
	})
}

// New builds the delegate for cfg. When the configured backend cannot be used
// and cfg.FallbackToMock is set, the mock is returned and a warning is logged.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Selection, error) {
	prompt, err := NewPrompt(cfg.PromptTemplate())
	if err != nil {
		return nil, err
	}

	fallback := func(reason string) (*Selection, error) {
		if !cfg.FallbackToMock {
			return nil, fmt.Errorf("backend %s unavailable: %s", cfg.Backend, reason)
		}
		log.Warn().Str("backend", cfg.Backend).Str("reason", reason).Msg("falling back to mock responder")
		return &Selection{Delegate: Mock{}, Backend: config.BackendMock, FellBack: true, Reason: reason}, nil
	}

	switch cfg.Backend {
	case config.BackendMock:
		return &Selection{Delegate: Mock{}, Backend: config.BackendMock}, nil

	case config.BackendOllama:
		client := NewOllamaClient(cfg)
		sel := &Selection{
			Delegate: NewOllama(client, cfg.Ollama.Model, prompt).WithAPI(cfg.Ollama.API).WithLogger(log),
			Backend:  config.BackendOllama,
			Model:    client.GetDefaultModel(),
		}

		probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		defer cancel()
		if err := client.CheckRunning(probeCtx); err != nil {
			if cfg.FallbackToMock {
				return fallback(err.Error())
			}
			// Keep the real delegate; each turn will report the failure inline.
			log.Warn().Err(err).Str("url", client.GetConfig().BaseURL).Msg("ollama not reachable")
			return sel, nil
		}

		// A missing model is reported per turn by Ollama itself; only warn here.
		if ok, err := client.ModelExists(probeCtx, sel.Model); err == nil && !ok {
			log.Warn().Str("model", sel.Model).Msg("model not pulled; run: ollama pull " + sel.Model)
		}
		return sel, nil

	case config.BackendOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return fallback("no OpenAI API key configured")
		}
		return &Selection{
			Delegate: NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, prompt),
			Backend:  config.BackendOpenAI,
			Model:    cfg.OpenAI.Model,
		}, nil

	case config.BackendAnthropic:
		if cfg.Anthropic.APIKey == "" {
			return fallback("no Anthropic API key configured")
		}
		return &Selection{
			Delegate: NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, prompt),
			Backend:  config.BackendAnthropic,
			Model:    cfg.Anthropic.Model,
		}, nil
	}

	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
