// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/taails/internal/conversation"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask one question and print the answer",
		Long: `Ask sends a single question with an empty conversation history and
prints the answer. Useful in scripts and pipes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}
}

func runAsk(cmd *cobra.Command, opts *rootOptions, question string) error {
	if strings.TrimSpace(question) == "" {
		return errors.New("question is empty")
	}

	s, err := openSession(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if notice := s.Notice(); notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), noticeStyle.Render(notice))
	}

	lipgloss.SetColorProfile(GetColorProfile())

	if s.ctrl.Submit(cmd.Context(), question) != conversation.OutcomeAnswered {
		return nil
	}

	tr := s.ctrl.Transcript()
	answer := tr[len(tr)-1]

	var md *glamour.TermRenderer
	if s.cfg.UI.Markdown && IsStdoutTTY() {
		md, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatAnswer(answer, md))

	if answer.Failed {
		return fmt.Errorf("no answer from %s", s.selection.Label())
	}
	return nil
}
