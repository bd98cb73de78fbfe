// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/taails/internal/config"
	"github.com/jeranaias/taails/internal/conversation"
	"github.com/jeranaias/taails/internal/delegate"
	"github.com/jeranaias/taails/internal/logging"
)

// mockNotice is shown when the configured backend was replaced by the mock.
const mockNotice = "Running with mock AI responses."

// session bundles what every command needs to talk to the model.
type session struct {
	cfg       *config.Config
	log       *logging.Logger
	selection *delegate.Selection
	ctrl      *conversation.Controller
}

// Close flushes and closes the log file.
func (s *session) Close() error {
	return s.log.Close()
}

// Notice returns the fallback warning, or "".
func (s *session) Notice() string {
	if s.selection.FellBack {
		return mockNotice
	}
	return ""
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	applyFlags(cfg, opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg. Flags beat env and file.
func applyFlags(cfg *config.Config, opts *rootOptions) {
	if opts.backend != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(opts.backend))
	}
	if opts.model != "" {
		cfg.SetModel(opts.model)
	}
	if opts.ollamaURL != "" {
		cfg.Ollama.URL = opts.ollamaURL
	}
	if opts.markdownSet {
		cfg.UI.Markdown = opts.markdown
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
}

// openSession loads config, opens the log and picks the delegate.
func openSession(ctx context.Context, opts *rootOptions) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			return nil, err
		}
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: logPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	sel, err := delegate.New(ctx, cfg, logger.Zerolog())
	if err != nil {
		logger.Close()
		return nil, err
	}

	ctrl := conversation.New(sel.Delegate, conversation.Options{
		Logger:  logger.Zerolog(),
		Backend: sel.Backend,
	})

	logger.Info().
		Str("session", ctrl.SessionID()).
		Str("backend", sel.Backend).
		Str("model", sel.Model).
		Bool("fallback", sel.FellBack).
		Msg("session started")

	return &session{cfg: cfg, log: logger, selection: sel, ctrl: ctrl}, nil
}
