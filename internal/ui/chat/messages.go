// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/taails/internal/conversation"

// answerMsg carries the delegate's reply for the pending turn back into Update.
type answerMsg struct {
	reply conversation.Reply
}
