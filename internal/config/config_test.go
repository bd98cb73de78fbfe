// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable ApplyEnvOverrides reads for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TAAILS_BACKEND", "TAAILS_MODEL", "TAAILS_OLLAMA_URL", "TAAILS_LOG_LEVEL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendOllama, cfg.Backend)
	assert.Equal(t, "llama3", cfg.Model())
	assert.True(t, cfg.FallbackToMock)
	assert.Equal(t, "TaAils Chat", cfg.UI.Title)
}

func TestLoadFromPath_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Ollama, cfg.Ollama)
}

func TestLoadFromPath_FileValuesAndDefaultsMerge(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
backend = "OpenAI"
fallback_to_mock = false

[ollama]
api = "chat"

[openai]
model = "gpt-4o"

[ui]
markdown = true
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, BackendOpenAI, cfg.Backend, "backend is normalised to lower case")
	assert.False(t, cfg.FallbackToMock)
	assert.Equal(t, "gpt-4o", cfg.Model())
	assert.True(t, cfg.UI.Markdown)
	assert.Equal(t, "TaAils Chat", cfg.UI.Title, "unset values keep defaults")
	assert.Equal(t, 1024, cfg.Anthropic.MaxTokens)
	assert.Equal(t, OllamaAPIChat, cfg.Ollama.API)
	assert.Equal(t, "llama3", cfg.Ollama.Model)
}

func TestLoadFromPath_FixesPermissions(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `backend = "mock"`)
	require.NoError(t, os.Chmod(path, 0644))

	_, err := LoadFromPath(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadFromPath_BadTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `backend = `)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TAAILS_BACKEND", "Anthropic")
	t.Setenv("TAAILS_MODEL", "claude-sonnet-4-0")
	t.Setenv("TAAILS_OLLAMA_URL", "http://10.0.0.5:11434")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, BackendAnthropic, cfg.Backend)
	assert.Equal(t, "claude-sonnet-4-0", cfg.Anthropic.Model)
	assert.Equal(t, "llama3", cfg.Ollama.Model, "model override only touches the selected backend")
	assert.Equal(t, "http://10.0.0.5:11434", cfg.Ollama.URL)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.APIKey)
}

func TestApplyEnvOverrides_FileKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg := Default()
	cfg.OpenAI.APIKey = "from-file"
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "from-file", cfg.OpenAI.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "gemini" }, "backend"},
		{"bad ollama url", func(c *Config) { c.Ollama.URL = "localhost" }, "ollama.url"},
		{"unknown ollama api", func(c *Config) { c.Ollama.API = "completions" }, "ollama.api"},
		{"negative timeout", func(c *Config) { c.Ollama.TimeoutSecs = -1 }, "ollama.timeout_secs"},
		{"bad openai base url", func(c *Config) { c.OpenAI.BaseURL = "::nope" }, "openai.base_url"},
		{"zero max tokens", func(c *Config) { c.Anthropic.MaxTokens = 0 }, "anthropic.max_tokens"},
		{"broken template", func(c *Config) { c.Prompt.Template = "{{.Question" }, "prompt.template"},
		{"unknown template field", func(c *Config) { c.Prompt.Template = "{{.Foo}} {{.Question}}" }, "prompt.template"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Backend = "nope"
	cfg.Log.Level = "nope"

	var verrs ValidateErrors
	require.True(t, errors.As(cfg.Validate(), &verrs))
	assert.Len(t, verrs, 2)
}

func TestValidate_TemplateUsingTurnFields(t *testing.T) {
	cfg := Default()
	cfg.Prompt.Template = "History:{{.Context}}\nQ: {{.Question}}\n{{if .Context}}continue{{end}}"

	assert.NoError(t, cfg.Validate())
}

func TestPromptTemplate(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultPromptTemplate, cfg.PromptTemplate())

	cfg.Prompt.Template = "Q: {{.Question}}"
	assert.Equal(t, "Q: {{.Question}}", cfg.PromptTemplate())
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Backend = BackendMock
	cfg.UI.Title = "Desk Chat"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMock, loaded.Backend)
	assert.Equal(t, "Desk Chat", loaded.UI.Title)
}
