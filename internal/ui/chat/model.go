// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/taails/internal/conversation"
	"github.com/jeranaias/taails/internal/ui/styles"
)

// InputHeight is the number of visible rows in the input area.
const InputHeight = 4

// Layout heights around the viewport. Input box rows plus its border.
const (
	headerHeight   = 1
	inputBoxHeight = InputHeight + 2
	buttonHeight   = 1
	statusHeight   = 1
)

// focusTarget is the widget that receives key input.
type focusTarget int

const (
	focusInput focusTarget = iota
	focusButton
)

// Options configures the chat window.
type Options struct {
	Title       string
	Subtitle    string // backend/model label
	Notice      string // e.g. the mock fallback warning
	Placeholder string
	Markdown    bool
}

// Model is the Bubble Tea model of the chat window.
type Model struct {
	ctrl  *conversation.Controller
	theme *styles.Theme
	keys  KeyMap
	opts  Options

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	md       *markdownRenderer

	focus    focusTarget
	waiting  bool
	quitting bool

	// Layout
	width  int
	height int

	lastElapsed time.Duration
}

// New creates the chat window for ctrl.
func New(ctrl *conversation.Controller, theme *styles.Theme, opts Options) Model {
	keys := DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = opts.Placeholder
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(InputHeight)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.FocusedStyle.CursorLine = ta.FocusedStyle.CursorLine.UnsetBackground()
	ta.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII-compatible animation
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	var md *markdownRenderer
	if opts.Markdown {
		md = newMarkdownRenderer(markdownStyle(theme))
	}

	return Model{
		ctrl:     ctrl,
		theme:    theme,
		keys:     keys,
		opts:     opts,
		viewport: vp,
		input:    ta,
		spinner:  sp,
		md:       md,
		focus:    focusInput,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.SetWindowTitle(m.opts.Title))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case answerMsg:
		return m.handleAnswer(msg)

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusInput && !m.waiting {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// View renders the window.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderChat()
}

// Waiting reports whether a turn is in flight.
func (m Model) Waiting() bool {
	return m.waiting
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	viewportHeight := m.height - headerHeight - inputBoxHeight - buttonHeight - statusHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	// Border takes one column on each side.
	m.input.SetWidth(calculateContentWidth(m.width, 2))

	if m.md != nil {
		m.md.setWidth(calculateContentWidth(m.width, 2))
	}

	m.refreshTranscript()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, even while waiting.
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.waiting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.FocusNext):
		return m.toggleFocus(), nil

	case key.Matches(msg, m.keys.Send):
		return m.submit()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus != focusInput {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.focus == focusInput {
		m.focus = focusButton
		m.input.Blur()
	} else {
		m.focus = focusInput
		m.input.Focus()
	}
	return m
}

// submit starts a turn with the current input. Blank input is ignored and
// left in place; "exit" quits.
func (m Model) submit() (tea.Model, tea.Cmd) {
	turn, outcome := m.ctrl.Begin(m.input.Value())

	switch outcome {
	case conversation.OutcomeIgnored:
		return m, nil

	case conversation.OutcomeExit:
		m.quitting = true
		return m, tea.Quit
	}

	m.input.Reset()
	m.input.Blur()
	m.waiting = true
	m.refreshTranscript()

	return m, tea.Batch(m.askCmd(turn), m.spinner.Tick)
}

// askCmd runs the delegate off the UI goroutine. It only reads turn.
func (m Model) askCmd(turn conversation.Turn) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return answerMsg{reply: ctrl.Ask(context.Background(), turn)}
	}
}

func (m Model) handleAnswer(msg answerMsg) (tea.Model, tea.Cmd) {
	m.ctrl.Complete(msg.reply)
	m.lastElapsed = msg.reply.Elapsed
	m.waiting = false

	var cmd tea.Cmd
	if m.focus == focusInput {
		cmd = m.input.Focus()
	}

	m.refreshTranscript()
	return m, cmd
}

// refreshTranscript re-renders the transcript and scrolls to the bottom.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
