// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/taails/internal/delegate"
)

// ErrorPrefix starts every inline failure line.
const ErrorPrefix = "Error: Could not get a response from the AI model."

// FormatError renders a delegate failure as the line shown in place of an answer.
func FormatError(err error) string {
	return fmt.Sprintf("%s (%v)", ErrorPrefix, err)
}

// =============================================================================
// OUTCOMES
// =============================================================================

// Outcome tells the shell what a submission did.
type Outcome int

const (
	// OutcomeIgnored: the input was blank. Nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeExit: the user asked to quit.
	OutcomeExit
	// OutcomePending: a turn was started and awaits Ask/Complete.
	OutcomePending
	// OutcomeAnswered: the turn finished (successfully or with an error line).
	OutcomeAnswered
)

// String returns a short name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeExit:
		return "exit"
	case OutcomePending:
		return "pending"
	case OutcomeAnswered:
		return "answered"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Turn is an immutable snapshot of one question and the context it is asked in.
type Turn struct {
	Question string
	Context  string
	Started  time.Time
}

// Reply is the delegate's result for a Turn.
type Reply struct {
	Turn    Turn
	Answer  string
	Err     error
	Elapsed time.Duration
}

// Text returns the answer, or the formatted error line on failure.
func (r Reply) Text() string {
	if r.Err != nil {
		return FormatError(r.Err)
	}
	return r.Answer
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Options configures a Controller.
type Options struct {
	// Logger receives one event per turn.
	Logger zerolog.Logger
	// Backend is recorded on log events.
	Backend string
	// Now overrides the clock. Nil uses time.Now.
	Now func() time.Time
}

// Controller owns the conversation context and the transcript for one session.
// It is not safe for concurrent use; the shell's UI goroutine is its only
// owner. Ask may run elsewhere because it only reads its Turn.
type Controller struct {
	delegate delegate.Delegate
	log      zerolog.Logger
	now      func() time.Time

	session    string
	context    strings.Builder
	transcript []Entry
}

// New creates a controller with an empty context.
func New(d delegate.Delegate, opts Options) *Controller {
	session := uuid.New().String()
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger.With().Str("session", session).Str("backend", opts.Backend).Logger()

	return &Controller{
		delegate:   d,
		log:        logger,
		now:        now,
		session:    session,
		transcript: make([]Entry, 0),
	}
}

// SessionID returns the id used to correlate this run's log events.
func (c *Controller) SessionID() string {
	return c.session
}

// Context returns the accumulated conversation context.
func (c *Controller) Context() string {
	return c.context.String()
}

// Transcript returns a copy of the visible transcript.
func (c *Controller) Transcript() []Entry {
	out := make([]Entry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Begin validates the input and, for a real question, appends the user entry
// and returns the Turn to ask. Blank input and "exit" leave state untouched.
func (c *Controller) Begin(text string) (Turn, Outcome) {
	question := strings.TrimSpace(text)
	if question == "" {
		return Turn{}, OutcomeIgnored
	}
	if strings.EqualFold(question, "exit") {
		c.log.Info().Msg("exit requested")
		return Turn{}, OutcomeExit
	}

	now := c.now()
	c.transcript = append(c.transcript, Entry{Role: RoleUser, Text: question, At: now})

	return Turn{Question: question, Context: c.context.String(), Started: now}, OutcomePending
}

// Ask invokes the delegate for t. It does not touch controller state.
// A panicking delegate is reported as an error like any other failure.
func (c *Controller) Ask(ctx context.Context, t Turn) (reply Reply) {
	reply.Turn = t

	in := delegate.Input{Question: t.Question}
	if !delegate.IgnoresContext(c.delegate) {
		in.Context = t.Context
	}

	defer func() {
		if r := recover(); r != nil {
			reply.Answer = ""
			reply.Err = fmt.Errorf("panic: %v", r)
		}
		reply.Elapsed = c.now().Sub(t.Started)
	}()

	reply.Answer, reply.Err = c.delegate.Invoke(ctx, in)
	return reply
}

// Complete records the reply: an AI entry in the transcript and the
// "\nUser: q\nAI: a\n" block in the context. Failures are logged, never returned.
func (c *Controller) Complete(r Reply) Entry {
	text := r.Text()
	entry := Entry{Role: RoleAI, Text: text, Failed: r.Err != nil, At: c.now()}
	c.transcript = append(c.transcript, entry)

	c.context.WriteString("\n" + RoleUser.ContextName() + ": " + r.Turn.Question)
	c.context.WriteString("\n" + RoleAI.ContextName() + ": " + text + "\n")

	if r.Err != nil {
		c.log.Error().Err(r.Err).Dur("elapsed", r.Elapsed).Msg("model delegate failed")
	} else {
		c.log.Info().Dur("elapsed", r.Elapsed).Int("answer_len", len(r.Answer)).Msg("turn answered")
	}
	return entry
}

// Submit runs a whole turn synchronously: Begin, Ask, Complete.
func (c *Controller) Submit(ctx context.Context, text string) Outcome {
	turn, outcome := c.Begin(text)
	if outcome != OutcomePending {
		return outcome
	}
	c.Complete(c.Ask(ctx, turn))
	return OutcomeAnswered
}
