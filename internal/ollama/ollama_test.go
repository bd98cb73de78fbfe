// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != "user" {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want 'Hello'", msg.Content)
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func TestMetrics_TokensPerSecond(t *testing.T) {
	tests := []struct {
		name         string
		evalCount    int
		evalDuration int64
		want         float64
	}{
		{"normal", 100, int64(time.Second), 100.0},
		{"zero duration", 100, 0, 0.0},
		{"fast", 1000, int64(100 * time.Millisecond), 10000.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := &GenerateResponse{Metrics: Metrics{EvalCount: tc.evalCount, EvalDuration: tc.evalDuration}}
			assert.InDelta(t, tc.want, resp.TokensPerSecond(), tc.want*0.01+1e-9)
		})
	}
}

func TestModelInfo_FormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{4_700_000_000, "4.4 GB"},
	}

	for _, tc := range tests {
		m := ModelInfo{Size: tc.size}
		assert.Equal(t, tc.want, m.FormatSize())
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL + "/"})
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})

	assert.Equal(t, DefaultBaseURL, c.GetConfig().BaseURL)
	assert.Equal(t, DefaultModel, c.GetDefaultModel())
	assert.Zero(t, c.httpClient.Timeout, "zero timeout means no client timeout")
}

func TestCheckRunning(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	})

	require.NoError(t, c.CheckRunning(context.Background()))
}

func TestCheckRunning_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url})
	err := c.CheckRunning(context.Background())

	require.Error(t, err)
	assert.True(t, IsNotRunning(err), "got %v", err)
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req GenerateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "hi", req.Prompt)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(GenerateResponse{Model: req.Model, Response: "hello there", Done: true})
	})

	resp, err := c.Generate(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Response)
	assert.True(t, resp.Done)
}

func TestGenerate_ModelNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"nope\" not found, try pulling it first"}`))
	})

	_, err := c.Generate(context.Background(), "nope", "hi")
	require.Error(t, err)
	assert.True(t, IsModelNotFound(err))
	assert.Equal(t, `model "nope" not found, try pulling it first`, err.Error())
}

func TestGenerate_NotFoundFromOtherServer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Generate(context.Background(), "llama3", "hi")
	require.Error(t, err)
	assert.False(t, IsModelNotFound(err))
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Ollama server")
}

func TestGenerate_ServerErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model requires more system memory"}`))
	})

	_, err := c.Generate(context.Background(), "", "hi")
	require.Error(t, err)
	assert.Equal(t, "model requires more system memory", err.Error())
}

func TestGenerate_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "", "hi")
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 1)

		json.NewEncoder(w).Encode(ChatResponse{Message: Message{Role: "assistant", Content: "pong"}, Done: true})
	})

	resp, err := c.Chat(context.Background(), "llama3", []Message{NewUserMessage("ping")})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Message.Content)
}

func TestModelExists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ListModelsResponse{Models: []ModelInfo{{Name: "llama3:latest"}}})
	})

	ok, err := c.ModelExists(context.Background(), "llama3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ModelExists(context.Background(), "mistral")
	require.NoError(t, err)
	assert.False(t, ok)
}
