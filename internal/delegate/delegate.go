// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"fmt"
)

// Input is what a delegate receives for one turn.
type Input struct {
	// Context is the accumulated transcript of prior turns. Empty for
	// delegates that ignore context.
	Context string
	// Question is the user's new message.
	Question string
}

// Delegate answers one question. Implementations must not retain Input.
type Delegate interface {
	Invoke(ctx context.Context, in Input) (string, error)
}

// Stateless is implemented by delegates that never look at the conversation
// context. The controller then sends only the question.
type Stateless interface {
	IgnoresContext() bool
}

// IgnoresContext reports whether d is a Stateless delegate that ignores context.
func IgnoresContext(d Delegate) bool {
	s, ok := d.(Stateless)
	return ok && s.IgnoresContext()
}

// Func adapts an ordinary function to the Delegate interface.
type Func func(ctx context.Context, in Input) (string, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, in Input) (string, error) {
	return f(ctx, in)
}

// =============================================================================
// MOCK
// =============================================================================

// Mock answers without any model. It is used when the configured backend is
// unavailable and fallback is enabled, or when backend = "mock".
type Mock struct{}

// Invoke echoes the question.
func (Mock) Invoke(_ context.Context, in Input) (string, error) {
	return fmt.Sprintf("Mock AI Response to: '%s'", in.Question), nil
}

// IgnoresContext is always true for the mock.
func (Mock) IgnoresContext() bool { return true }
