// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// This package implements a small client for the Ollama local LLM server.
// taails only needs one answer per turn, so every call is non-streaming.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - GenerateRequest / GenerateResponse: single-prompt completion
//   - ChatRequest / ChatResponse: message-list completion
//   - ClientError: typed failures (not running, timeout, model not found)
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
//	    BaseURL:      "http://127.0.0.1:11434",
//	    DefaultModel: "llama3",
//	})
//	resp, err := client.Generate(ctx, "", "Why is the sky blue?")
//	if ollama.IsNotRunning(err) {
//	    // start it with: ollama serve
//	}
package ollama
