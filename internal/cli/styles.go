// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/taails/internal/ui/styles"
)

// Line-mode styles. Same palette as the chat window.
var (
	aiTagStyle = lipgloss.NewStyle().
			Foreground(styles.Green)

	errorLineStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)
