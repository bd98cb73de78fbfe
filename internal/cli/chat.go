// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/taails/internal/ui/chat"
	"github.com/jeranaias/taails/internal/ui/styles"
)

// runChat opens a session and hands it to the window or the REPL.
func runChat(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openSession(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.plain || !Interactive() {
		s.log.Info().Msg("starting line-mode REPL")
		return runREPL(cmd, s)
	}
	return runWindow(s)
}

// runWindow runs the full-screen chat window until the user quits.
func runWindow(s *session) error {
	m := chat.New(s.ctrl, styles.NewTheme(), chat.Options{
		Title:       s.cfg.UI.Title,
		Subtitle:    s.selection.Label(),
		Notice:      s.Notice(),
		Placeholder: s.cfg.UI.Placeholder,
		Markdown:    s.cfg.UI.Markdown,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	if err != nil {
		s.log.Error().Err(err).Msg("chat window failed")
	}
	return err
}

// runREPL drives the session from a liner prompt.
func runREPL(cmd *cobra.Command, s *session) error {
	lipgloss.SetColorProfile(GetColorProfile())

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	repl := NewREPL(s.ctrl, line, cmd.OutOrStdout(), REPLOptions{
		Title:    s.cfg.UI.Title,
		Subtitle: s.selection.Label(),
		Notice:   s.Notice(),
		Markdown: s.cfg.UI.Markdown,
		Width:    GetTerminalWidth(),
	})
	return repl.Run(cmd.Context())
}
