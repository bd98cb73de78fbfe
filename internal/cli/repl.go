// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/taails/internal/conversation"
)

// replPrompt is passed to liner as-is. liner refuses prompts that contain
// escape sequences, so it is never styled.
const replPrompt = "You: "

// LineReader is the part of *liner.State the REPL uses.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// REPLOptions configures the line-mode shell.
type REPLOptions struct {
	Title    string
	Subtitle string
	Notice   string
	Markdown bool
	Width    int
}

// REPL is the line-mode chat shell. History lives only in memory.
type REPL struct {
	ctrl *conversation.Controller
	in   LineReader
	out  io.Writer
	opts REPLOptions
	md   *glamour.TermRenderer
}

// NewREPL creates a REPL reading from in and writing to out.
func NewREPL(ctrl *conversation.Controller, in LineReader, out io.Writer, opts REPLOptions) *REPL {
	r := &REPL{ctrl: ctrl, in: in, out: out, opts: opts}

	if opts.Markdown {
		width := opts.Width
		if width <= 0 {
			width = DefaultTerminalWidth
		}
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		); err == nil {
			r.md = md
		}
	}
	return r
}

// Run reads questions until exit, Ctrl+C or Ctrl+D.
func (r *REPL) Run(ctx context.Context) error {
	r.printWelcome()

	for {
		input, err := r.in.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		if strings.TrimSpace(input) != "" {
			r.in.AppendHistory(input)
		}

		switch r.ctrl.Submit(ctx, input) {
		case conversation.OutcomeExit:
			return nil
		case conversation.OutcomeIgnored:
			continue
		}

		tr := r.ctrl.Transcript()
		r.printAnswer(tr[len(tr)-1])
	}
}

func (r *REPL) printWelcome() {
	header := r.opts.Title
	if r.opts.Subtitle != "" {
		header += " " + mutedStyle.Render("("+r.opts.Subtitle+")")
	}
	fmt.Fprintln(r.out, header)
	if r.opts.Notice != "" {
		fmt.Fprintln(r.out, noticeStyle.Render(r.opts.Notice))
	}
	fmt.Fprintln(r.out, mutedStyle.Render("Type exit or press Ctrl+D to quit."))
	fmt.Fprintln(r.out)
}

// printAnswer writes "AI: <text>" followed by a blank line.
func (r *REPL) printAnswer(e conversation.Entry) {
	fmt.Fprintln(r.out, formatAnswer(e, r.md)+"\n")
}

// formatAnswer renders an AI entry for line-mode output.
func formatAnswer(e conversation.Entry, md *glamour.TermRenderer) string {
	tag := aiTagStyle.Render(e.Role.DisplayName() + ":")

	if e.Failed {
		return tag + " " + errorLineStyle.Render(e.Text)
	}
	if md != nil {
		if out, err := md.Render(e.Text); err == nil {
			return tag + "\n" + strings.Trim(out, "\n")
		}
	}
	return tag + " " + e.Text
}
