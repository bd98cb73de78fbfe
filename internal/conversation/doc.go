// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation holds the chat session: the append-only context
// buffer sent to the model and the transcript shown to the user.
//
// A turn is split in three so a UI can redraw while the model works:
//
//	turn, outcome := ctrl.Begin(input) // user entry appended
//	reply := ctrl.Ask(ctx, turn)       // delegate call, no state change
//	ctrl.Complete(reply)               // AI entry + context appended
//
// Submit does all three synchronously.
package conversation
