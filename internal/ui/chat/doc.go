// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the taails chat window built on Bubble Tea.

The window stacks, top to bottom:
  - Header with the window title and the backend in use
  - Viewport with the transcript ("You:" blue bold, "AI:" green)
  - Four-line input area and a Send button
  - Status line with key hints, or a spinner while waiting for the model

# Synchronous turns

Pressing Enter (or the Send button) hands the input to the conversation
controller. While the model is working the input is blurred and every key
except Ctrl+C is ignored, so at most one turn is ever in flight. The
delegate call itself runs as a tea.Cmd; its reply comes back as an
answerMsg and is applied to the controller inside Update.

# Usage

	m := chat.New(ctrl, theme, chat.Options{Title: "TaAils Chat"})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
*/
package chat
