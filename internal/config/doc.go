// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for taails.
//
// Configuration is TOML, read once at startup. There is no hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - OllamaConfig, OpenAIConfig, AnthropicConfig: per-backend settings
//   - ValidateErrors: every validation problem found in one pass
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (TAAILS_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)
//   - ~/.taails/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	model := cfg.Model()
package config
