// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "time"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the tag shown before an entry's text.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAI:
		return "AI"
	default:
		return string(r)
	}
}

// ContextName returns the speaker label used inside the context buffer.
func (r Role) ContextName() string {
	if r == RoleUser {
		return "User"
	}
	return r.DisplayName()
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is one line of the visible transcript.
type Entry struct {
	Role Role
	Text string
	// Failed marks an AI entry that carries the error line instead of an answer.
	Failed bool
	At     time.Time
}

// Display returns the entry as shown to the user, e.g. "You: hello".
func (e Entry) Display() string {
	return e.Role.DisplayName() + ": " + e.Text
}

// IsUser returns true if the entry was typed by the user.
func (e Entry) IsUser() bool {
	return e.Role == RoleUser
}
