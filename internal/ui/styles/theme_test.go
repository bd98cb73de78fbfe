// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	assert.Equal(t, theme.ColorProfile == termenv.TrueColor, theme.HasTrueColor)
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme()

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserTag", theme.UserTag},
		{"AITag", theme.AITag},
		{"ErrorText", theme.ErrorText},
		{"InputBox", theme.InputBox},
		{"ButtonFocused", theme.ButtonFocused},
		{"StatusBar", theme.StatusBar},
	}

	for _, s := range styles {
		if s.style.Render("test") == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestSpeakerStyles(t *testing.T) {
	theme := NewTheme()

	assert.True(t, theme.UserTag.GetBold(), "user tag is bold")
	assert.Equal(t, lipgloss.TerminalColor(Blue), theme.UserTag.GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(Green), theme.AITag.GetForeground())

	assert.Equal(t, theme.UserTag.GetForeground(), theme.Tag(true).GetForeground())
	assert.Equal(t, theme.AITag.GetForeground(), theme.Tag(false).GetForeground())
}

func TestInputBoxFocusChangesBorder(t *testing.T) {
	theme := NewTheme()

	assert.NotEqual(t,
		theme.InputBox.GetBorderTopForeground(),
		theme.InputBoxFocused.GetBorderTopForeground())
}
