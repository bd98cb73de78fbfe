// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package delegate provides the model delegate: the one call taails makes to
// a language model per chat turn.
//
// # Backends
//
//   - Ollama: local server, POST /api/generate with stream=false
//   - OpenAI: Chat Completions via openai-go (any compatible base URL)
//   - Anthropic: Messages API via anthropic-sdk-go
//   - Mock: answers "Mock AI Response to: '<question>'" and ignores context
//
// Single-prompt backends render config.DefaultPromptTemplate (or the user's
// template) with the accumulated context and the new question.
//
// # Usage
//
//	sel, err := delegate.New(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	answer, err := sel.Delegate.Invoke(ctx, delegate.Input{Question: "hi"})
package delegate
