// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the chat window.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserTag     lipgloss.Style
	AITag       lipgloss.Style
	MessageText lipgloss.Style
	ErrorText   lipgloss.Style

	// ==========================================================================
	// INPUT AND BUTTON
	// ==========================================================================

	InputBox        lipgloss.Style
	InputBoxFocused lipgloss.Style
	Button          lipgloss.Style
	ButtonFocused   lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	StatusBar    lipgloss.Style
	Notice       lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Transcript: user tag blue bold, AI tag green
	t.UserTag = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue)

	t.AITag = lipgloss.NewStyle().
		Foreground(Green)

	t.MessageText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)

	// Input area
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.InputBoxFocused = t.InputBox.
		BorderForeground(Purple)

	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(OverlayDim).
		Padding(0, 2)

	t.ButtonFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 2)

	// Status
	t.Spinner = lipgloss.NewStyle().
		Foreground(Cyan)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// Tag returns the style for a speaker tag.
func (t *Theme) Tag(user bool) lipgloss.Style {
	if user {
		return t.UserTag
	}
	return t.AITag
}
