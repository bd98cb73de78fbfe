// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// TEXT UTILITIES
// =============================================================================

// truncateToWidth truncates a string to fit within a given visible width,
// ending with an ellipsis when cut.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// wrapText wraps text to a maximum cell width, handling wide characters.
// It preserves existing line breaks and breaks long lines at spaces.
func wrapText(text string, maxWidth int) string {
	return wrapTextHanging(text, maxWidth, 0)
}

// wrapTextHanging wraps like wrapText but leaves indent cells free on the
// first line, where a tag is printed in front of the text.
func wrapTextHanging(text string, maxWidth, indent int) string {
	if maxWidth <= 0 {
		return text
	}

	limit := max(maxWidth-indent, 1)
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
			limit = maxWidth
		}

		for runewidth.StringWidth(line) > limit {
			cut := len(runewidth.Truncate(line, limit, ""))
			if cut == 0 {
				// A single rune wider than the line.
				_, cut = utf8.DecodeRuneInString(line)
			}

			breakPoint := cut
			if sp := strings.LastIndexByte(line[:cut], ' '); sp > 0 {
				breakPoint = sp
			}

			result.WriteString(line[:breakPoint])
			result.WriteString("\n")
			line = strings.TrimLeft(line[breakPoint:], " ")
			limit = maxWidth
		}
		result.WriteString(line)
	}

	return result.String()
}

// calculateContentWidth returns totalWidth minus margin, never below 3.
func calculateContentWidth(totalWidth, margin int) int {
	contentWidth := totalWidth - margin
	if contentWidth < 3 {
		contentWidth = 3
	}
	return contentWidth
}
