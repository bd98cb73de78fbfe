// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic sends the rendered prompt as a single user message to the
// Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	prompt    *Prompt
}

// NewAnthropic creates an Anthropic delegate with SDK retries disabled.
func NewAnthropic(apiKey, model string, maxTokens int, prompt *Prompt, opts ...option.RequestOption) *Anthropic {
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Anthropic{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: int64(maxTokens),
		prompt:    prompt,
	}
}

// Invoke renders the prompt and returns the concatenated text blocks.
func (a *Anthropic) Invoke(ctx context.Context, in Input) (string, error) {
	text, err := a.prompt.Render(in)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
