// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI sends the rendered prompt as a single user message to the Chat
// Completions API, or to any server that speaks it.
type OpenAI struct {
	client openai.Client
	model  string
	prompt *Prompt
}

// NewOpenAI creates an OpenAI delegate. baseURL may be empty. The SDK's
// automatic retries are disabled; a failed turn is reported, not repeated.
func NewOpenAI(apiKey, model, baseURL string, prompt *Prompt, opts ...option.RequestOption) *OpenAI {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAI{
		client: openai.NewClient(reqOpts...),
		model:  model,
		prompt: prompt,
	}
}

// Invoke renders the prompt and returns the first choice's content.
func (o *OpenAI) Invoke(ctx context.Context, in Input) (string, error) {
	text, err := o.prompt.Render(in)
	if err != nil {
		return "", err
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
