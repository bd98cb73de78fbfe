// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/taails/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Backend names accepted in Config.Backend.
const (
	BackendOllama    = "ollama"
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendMock      = "mock"
)

// Ollama endpoints the ollama backend can send the prompt to.
const (
	OllamaAPIGenerate = "generate"
	OllamaAPIChat     = "chat"
)

// DefaultPromptTemplate is the prompt sent to single-prompt backends.
// .Context holds prior turns, .Question the new user text.
const DefaultPromptTemplate = `
Answer the question below.

Here is the conversation history: {{.Context}}

Question: {{.Question}}

Answer:
`

// Config represents the complete taails configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend selects the model delegate: "ollama", "openai", "anthropic", "mock"
	Backend string `toml:"backend"`
	// FallbackToMock answers with the mock responder when the selected
	// backend is unreachable or lacks credentials at startup.
	FallbackToMock bool `toml:"fallback_to_mock"`

	Ollama    OllamaConfig    `toml:"ollama"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Anthropic AnthropicConfig `toml:"anthropic"`
	Prompt    PromptConfig    `toml:"prompt"`
	UI        UIConfig        `toml:"ui"`
	Log       LogConfig       `toml:"log"`
}

// OllamaConfig contains local Ollama configuration.
type OllamaConfig struct {
	URL   string `toml:"url"`
	Model string `toml:"model"`
	// TimeoutSecs bounds a single request. 0 disables the timeout.
	TimeoutSecs int `toml:"timeout_secs"`
	// API is "generate" (/api/generate) or "chat" (/api/chat, the rendered
	// prompt sent as one user message).
	API string `toml:"api"`
}

// OpenAIConfig contains OpenAI (or compatible server) configuration.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// AnthropicConfig contains Anthropic configuration.
type AnthropicConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
}

// PromptConfig holds the prompt template. Empty means DefaultPromptTemplate.
type PromptConfig struct {
	Template string `toml:"template"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	Title       string `toml:"title"`
	Markdown    bool   `toml:"markdown"`
	Placeholder string `toml:"placeholder"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	// File is the log path. Empty means ~/.taails/taails.log.
	File string `toml:"file"`
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Version:        "1",
		Backend:        BackendOllama,
		FallbackToMock: true,
		Ollama: OllamaConfig{
			URL:   "http://127.0.0.1:11434",
			Model: "llama3",
			API:   OllamaAPIGenerate,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-3-5-haiku-latest",
			MaxTokens: 1024,
		},
		UI: UIConfig{
			Title:       "TaAils Chat",
			Placeholder: "Type a message...",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the taails configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".taails"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the log file used when log.file is empty.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taails.log"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files may hold API keys and should be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.taails/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !os.IsNotExist(statErr) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, statErr)
	}

	cfg.ApplyEnvOverrides()
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg and fills any values left empty.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Backend == "" {
		cfg.Backend = defaults.Backend
	}

	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = defaults.Ollama.Model
	}
	if cfg.Ollama.API == "" {
		cfg.Ollama.API = defaults.Ollama.API
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = defaults.OpenAI.Model
	}
	if cfg.Anthropic.Model == "" {
		cfg.Anthropic.Model = defaults.Anthropic.Model
	}
	if cfg.Anthropic.MaxTokens == 0 {
		cfg.Anthropic.MaxTokens = defaults.Anthropic.MaxTokens
	}

	if cfg.UI.Title == "" {
		cfg.UI.Title = defaults.UI.Title
	}
	if cfg.UI.Placeholder == "" {
		cfg.UI.Placeholder = defaults.UI.Placeholder
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# taails configuration file\n")
	buf.WriteString("# Generated by taails - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validBackends := map[string]bool{
		BackendOllama: true, BackendOpenAI: true, BackendAnthropic: true, BackendMock: true,
	}
	if !validBackends[strings.ToLower(c.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: ollama, openai, anthropic, mock", c.Backend),
		})
	}

	if u, err := url.Parse(c.Ollama.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "ollama.url",
			Message: fmt.Sprintf("invalid URL '%s'", c.Ollama.URL),
		})
	}
	if c.Ollama.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "ollama.timeout_secs",
			Message: "must be >= 0",
		})
	}
	if c.Ollama.API != OllamaAPIGenerate && c.Ollama.API != OllamaAPIChat {
		errs = append(errs, ValidationError{
			Field:   "ollama.api",
			Message: fmt.Sprintf("invalid API '%s', must be one of: generate, chat", c.Ollama.API),
		})
	}

	if c.OpenAI.BaseURL != "" {
		if u, err := url.Parse(c.OpenAI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "openai.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.OpenAI.BaseURL),
			})
		}
	}

	if c.Anthropic.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "anthropic.max_tokens",
			Message: "must be > 0",
		})
	}

	if err := checkPromptTemplate(c.PromptTemplate()); err != nil {
		errs = append(errs, ValidationError{
			Field:   "prompt.template",
			Message: err.Error(),
		})
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error, disabled", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkPromptTemplate parses the template and executes it once against the
// fields a turn provides, so unknown fields fail at startup and not per turn.
func checkPromptTemplate(text string) error {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return err
	}
	sample := struct{ Context, Question string }{}
	return tmpl.Execute(io.Discard, sample)
}

// PromptTemplate returns the configured template or the built-in one.
func (c *Config) PromptTemplate() string {
	if strings.TrimSpace(c.Prompt.Template) == "" {
		return DefaultPromptTemplate
	}
	return c.Prompt.Template
}

// Model returns the model name of the selected backend.
func (c *Config) Model() string {
	switch strings.ToLower(c.Backend) {
	case BackendOpenAI:
		return c.OpenAI.Model
	case BackendAnthropic:
		return c.Anthropic.Model
	case BackendMock:
		return "mock"
	default:
		return c.Ollama.Model
	}
}

// SetModel sets the model name of the selected backend.
func (c *Config) SetModel(model string) {
	switch strings.ToLower(c.Backend) {
	case BackendOpenAI:
		c.OpenAI.Model = model
	case BackendAnthropic:
		c.Anthropic.Model = model
	case BackendOllama:
		c.Ollama.Model = model
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TAAILS_BACKEND: overrides backend
//   - TAAILS_MODEL: overrides the selected backend's model
//   - TAAILS_OLLAMA_URL: overrides ollama.url
//   - TAAILS_LOG_LEVEL: overrides log.level
//   - OPENAI_API_KEY: fills openai.api_key when unset
//   - ANTHROPIC_API_KEY: fills anthropic.api_key when unset
func (c *Config) ApplyEnvOverrides() {
	if backend := os.Getenv("TAAILS_BACKEND"); backend != "" {
		c.Backend = strings.ToLower(backend)
	}

	if model := os.Getenv("TAAILS_MODEL"); model != "" {
		c.SetModel(model)
	}

	if u := os.Getenv("TAAILS_OLLAMA_URL"); u != "" {
		c.Ollama.URL = u
	}

	if level := os.Getenv("TAAILS_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = key
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = key
	}
}
