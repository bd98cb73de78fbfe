// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the taails chat window.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
// The user tag is blue and bold, the AI tag green, inline errors rose.
//
// # Usage
//
//	theme := styles.NewTheme()
//	line := theme.UserTag.Render("You:") + " " + theme.MessageText.Render(text)
package styles
