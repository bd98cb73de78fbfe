// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jeranaias/taails/internal/config"
	"github.com/jeranaias/taails/internal/ollama"
)

// Ollama sends the rendered prompt to a local Ollama server, through
// /api/generate by default or as a single user message through /api/chat.
type Ollama struct {
	client *ollama.Client
	model  string
	prompt *Prompt
	api    string
	log    zerolog.Logger
}

// NewOllama creates an Ollama delegate. An empty model uses the client default.
func NewOllama(client *ollama.Client, model string, prompt *Prompt) *Ollama {
	return &Ollama{
		client: client,
		model:  model,
		prompt: prompt,
		api:    config.OllamaAPIGenerate,
		log:    zerolog.Nop(),
	}
}

// WithAPI selects the endpoint: config.OllamaAPIGenerate or config.OllamaAPIChat.
func (o *Ollama) WithAPI(api string) *Ollama {
	o.api = api
	return o
}

// WithLogger sets the logger that receives per-call generation stats.
func (o *Ollama) WithLogger(log zerolog.Logger) *Ollama {
	o.log = log
	return o
}

// Invoke renders the prompt and returns the model's full response.
func (o *Ollama) Invoke(ctx context.Context, in Input) (string, error) {
	text, err := o.prompt.Render(in)
	if err != nil {
		return "", err
	}

	var (
		answer  string
		model   string
		metrics ollama.Metrics
	)
	if o.api == config.OllamaAPIChat {
		resp, err := o.client.Chat(ctx, o.model, []ollama.Message{ollama.NewUserMessage(text)})
		if err != nil {
			return "", o.hint(err)
		}
		answer, model, metrics = resp.Message.Content, resp.Model, resp.Metrics
	} else {
		resp, err := o.client.Generate(ctx, o.model, text)
		if err != nil {
			return "", o.hint(err)
		}
		answer, model, metrics = resp.Response, resp.Model, resp.Metrics
	}

	o.log.Debug().
		Str("model", model).
		Str("api", o.api).
		Int("prompt_tokens", metrics.PromptEvalCount).
		Int("tokens", metrics.EvalCount).
		Dur("total", metrics.TotalTime()).
		Float64("tokens_per_sec", metrics.TokensPerSecond()).
		Msg("ollama response done")

	return answer, nil
}

// hint appends the usual remedy to typed client errors. The result is shown
// inside the inline error line.
func (o *Ollama) hint(err error) error {
	model := o.model
	if model == "" {
		model = o.client.GetDefaultModel()
	}
	switch {
	case ollama.IsNotRunning(err):
		return fmt.Errorf("%w; start it with: ollama serve", err)
	case ollama.IsModelNotFound(err):
		return fmt.Errorf("%w; run: ollama pull %s", err, model)
	case ollama.IsTimeout(err):
		return fmt.Errorf("%w; raise ollama.timeout_secs or set it to 0", err)
	}
	return err
}
