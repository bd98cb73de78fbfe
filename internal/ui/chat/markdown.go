// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/taails/internal/ui/styles"
)

// markdownRenderer renders AI answers with glamour, rebuilding the
// TermRenderer when the wrap width changes. The style is fixed at creation:
// querying the terminal background while Bubble Tea owns stdin can stall.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(style string) *markdownRenderer {
	return &markdownRenderer{style: style}
}

// markdownStyle picks the glamour style matching a theme.
func markdownStyle(theme *styles.Theme) string {
	switch {
	case theme.ColorProfile == termenv.Ascii:
		return glamourstyles.NoTTYStyle
	case theme.IsDark:
		return glamourstyles.DarkStyle
	default:
		return glamourstyles.LightStyle
	}
}

func (r *markdownRenderer) setWidth(width int) {
	if width == r.width && r.renderer != nil {
		return
	}
	r.width = width

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r.renderer = nil
		return
	}
	r.renderer = renderer
}

// render returns the styled markdown, or false when no renderer is ready or
// rendering failed. Callers fall back to plain text.
func (r *markdownRenderer) render(text string) (string, bool) {
	if r == nil || r.renderer == nil {
		return "", false
	}
	out, err := r.renderer.Render(text)
	if err != nil {
		return "", false
	}
	return strings.Trim(out, "\n"), true
}
