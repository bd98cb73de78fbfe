// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/taails/internal/conversation"
)

// waitingText is shown next to the spinner while a turn is in flight.
const waitingText = "Waiting for AI..."

func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderButton(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	parts := []string{m.theme.HeaderTitle.Render(m.opts.Title)}
	if m.opts.Subtitle != "" {
		parts = append(parts, m.theme.HeaderSubtitle.Render(m.opts.Subtitle))
	}
	if m.opts.Notice != "" {
		parts = append(parts, m.theme.Notice.Render(m.opts.Notice))
	}

	return m.theme.Header.
		Width(m.width).
		MaxHeight(headerHeight).
		Render(strings.Join(parts, "  "))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m *Model) renderTranscript() string {
	entries := m.ctrl.Transcript()
	if len(entries) == 0 {
		return m.theme.Muted.Render("Type a message and press Enter. Type exit to quit.")
	}

	width := calculateContentWidth(m.viewport.Width, 1)
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderEntry(e, width))
		if !e.IsUser() {
			// A blank line after every answer.
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *Model) renderEntry(e conversation.Entry, width int) string {
	tag := m.theme.Tag(e.IsUser()).Render(e.Role.DisplayName() + ":")

	if !e.IsUser() && !e.Failed {
		if md, ok := m.md.render(e.Text); ok {
			return tag + "\n" + md
		}
	}

	textStyle := m.theme.MessageText
	if e.Failed {
		textStyle = m.theme.ErrorText
	}

	// Leave room for the tag on the first line.
	indent := runewidth.StringWidth(e.Role.DisplayName() + ": ")
	lines := strings.Split(wrapTextHanging(e.Text, width, indent), "\n")
	for i, line := range lines {
		lines[i] = textStyle.Render(line)
	}
	return tag + " " + strings.Join(lines, "\n")
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m Model) renderInput() string {
	box := m.theme.InputBox
	if m.focus == focusInput && !m.waiting {
		box = m.theme.InputBoxFocused
	}
	return box.Render(m.input.View())
}

func (m Model) renderButton() string {
	style := m.theme.Button
	if m.focus == focusButton && !m.waiting {
		style = m.theme.ButtonFocused
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, style.Render("Send"))
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	if m.waiting {
		line := m.spinner.View() + " " + m.theme.ThinkingText.Render(waitingText)
		return m.theme.StatusBar.Width(m.width).MaxHeight(statusHeight).Render(line)
	}
	return m.theme.StatusBar.Width(m.width).Render(m.statusText())
}

// statusText is the plain idle status line, cut to the window width.
func (m Model) statusText() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	text := strings.Join(hints, " · ")

	if m.lastElapsed > 0 {
		text += " · last reply " + formatElapsed(m.lastElapsed)
	}
	return truncateToWidth(text, m.width)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
