// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/taails/internal/config"
	"github.com/jeranaias/taails/internal/conversation"
	"github.com/jeranaias/taails/internal/delegate"
	"github.com/jeranaias/taails/internal/ollama"
)

// isolate points HOME at a temp dir and clears every env override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")
	for _, k := range []string{
		"TAAILS_BACKEND", "TAAILS_MODEL", "TAAILS_OLLAMA_URL", "TAAILS_LOG_LEVEL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return home
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// =============================================================================
// REPL
// =============================================================================

// scriptedReader feeds fixed lines to the REPL, then returns end.
type scriptedReader struct {
	lines   []string
	end     error
	history []string
	prompts int
	shown   []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts++
	r.shown = append(r.shown, prompt)
	if len(r.lines) == 0 {
		return "", r.end
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func newREPL(t *testing.T, d delegate.Delegate, in LineReader, out io.Writer) (*REPL, *conversation.Controller) {
	t.Helper()
	ctrl := conversation.New(d, conversation.Options{Logger: zerolog.Nop()})
	return NewREPL(ctrl, in, out, REPLOptions{Title: "TaAils Chat"}), ctrl
}

func TestREPL_AnswersUntilExit(t *testing.T) {
	in := &scriptedReader{lines: []string{"hello", "   ", "EXIT", "never read"}, end: io.EOF}
	var out bytes.Buffer
	repl, ctrl := newREPL(t, delegate.Mock{}, in, &out)

	require.NoError(t, repl.Run(context.Background()))

	assert.Contains(t, out.String(), "AI: Mock AI Response to: 'hello'\n\n")
	assert.Equal(t, 3, in.prompts, "exit stops the loop")
	assert.Equal(t, []string{"hello", "EXIT"}, in.history, "blank lines stay out of history")
	assert.Len(t, ctrl.Transcript(), 2)
}

// liner rejects prompts that contain control characters, so the prompt must
// stay plain even when the terminal supports color.
func TestREPL_PromptHasNoEscapesUnderColorProfile(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	in := &scriptedReader{lines: []string{"hello"}, end: io.EOF}
	var out bytes.Buffer
	repl, _ := newREPL(t, delegate.Mock{}, in, &out)

	require.NoError(t, repl.Run(context.Background()))

	require.NotEmpty(t, in.shown)
	for _, p := range in.shown {
		assert.Equal(t, "You: ", p)
		assert.False(t, strings.ContainsFunc(p, unicode.IsControl), "prompt %q", p)
	}
}

func TestREPL_EOFAndAbortEndCleanly(t *testing.T) {
	for _, end := range []error{io.EOF, liner.ErrPromptAborted} {
		in := &scriptedReader{end: end}
		repl, _ := newREPL(t, delegate.Mock{}, in, io.Discard)

		assert.NoError(t, repl.Run(context.Background()))
	}
}

func TestREPL_ReaderErrorIsReturned(t *testing.T) {
	boom := errors.New("terminal gone")
	repl, _ := newREPL(t, delegate.Mock{}, &scriptedReader{end: boom}, io.Discard)

	assert.ErrorIs(t, repl.Run(context.Background()), boom)
}

func TestREPL_FailureIsPrintedInline(t *testing.T) {
	failing := delegate.Func(func(context.Context, delegate.Input) (string, error) {
		return "", errors.New("model not found")
	})
	in := &scriptedReader{lines: []string{"hi", "still here?"}, end: io.EOF}
	var out bytes.Buffer
	repl, ctrl := newREPL(t, failing, in, &out)

	require.NoError(t, repl.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(),
		"AI: Error: Could not get a response from the AI model. (model not found)"))
	assert.Len(t, ctrl.Transcript(), 4)
}

func TestREPL_WelcomeShowsNotice(t *testing.T) {
	var out bytes.Buffer
	ctrl := conversation.New(delegate.Mock{}, conversation.Options{Logger: zerolog.Nop()})
	repl := NewREPL(ctrl, &scriptedReader{end: io.EOF}, &out, REPLOptions{
		Title:    "TaAils Chat",
		Subtitle: "mock",
		Notice:   mockNotice,
	})

	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "TaAils Chat")
	assert.Contains(t, out.String(), mockNotice)
}

// =============================================================================
// FLAGS AND CONFIG
// =============================================================================

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, &rootOptions{
		backend:     " OpenAI ",
		model:       "gpt-4o",
		ollamaURL:   "http://gpu-box:11434",
		markdown:    true,
		markdownSet: true,
		logLevel:    "debug",
		logFile:     "/tmp/taails.log",
	})

	assert.Equal(t, config.BackendOpenAI, cfg.Backend)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.URL)
	assert.True(t, cfg.UI.Markdown)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/taails.log", cfg.Log.File)
}

func TestApplyFlags_UnsetLeavesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Markdown = true
	applyFlags(cfg, &rootOptions{})

	assert.Equal(t, config.Default().Backend, cfg.Backend)
	assert.True(t, cfg.UI.Markdown, "markdown only changes when the flag is given")
}

func TestLoadConfig_FlagsBeatEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TAAILS_BACKEND", "anthropic")

	cfg, err := loadConfig(&rootOptions{backend: "mock"})
	require.NoError(t, err)
	assert.Equal(t, config.BackendMock, cfg.Backend)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	isolate(t)

	_, err := loadConfig(&rootOptions{backend: "gemini"})
	assert.Error(t, err)
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "taails version "+GetVersion()+"\n", out)
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "taails", "config.toml")

	out, err := runCmd(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = runCmd(t, "--config", path, "config", "init")
	assert.Error(t, err, "refuses to overwrite")

	_, err = runCmd(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendOllama, cfg.Backend)
}

func TestConfigPath(t *testing.T) {
	home := isolate(t)

	out, err := runCmd(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".taails", "config.toml")+"\n", out)
}

func TestAskCmd_Mock(t *testing.T) {
	isolate(t)
	logFile := filepath.Join(t.TempDir(), "taails.log")

	out, err := runCmd(t, "--backend", "mock", "--log-file", logFile, "ask", "what", "is", "go?")
	require.NoError(t, err)
	assert.Equal(t, "AI: Mock AI Response to: 'what is go?'\n", out)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), "turn answered")
}

func TestAskCmd_MissingKeyWithoutFallback(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = \"openai\"\nfallback_to_mock = false\n"), 0600))

	_, err := runCmd(t, "--config", path, "--log-file", filepath.Join(t.TempDir(), "l.log"), "ask", "hi")
	assert.Error(t, err)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	isolate(t)
	_, err := runCmd(t, "unexpected")
	assert.Error(t, err)
}

func TestModelsCmd(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(ollama.ListModelsResponse{Models: []ollama.ModelInfo{
			{Name: "llama3:latest", Size: 4_700_000_000},
			{Name: "mistral:7b", Size: 2048},
		}})
	}))
	defer srv.Close()

	out, err := runCmd(t, "--ollama-url", srv.URL, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "llama3:latest *")
	assert.Contains(t, out, "4.4 GB")
	assert.Contains(t, out, "mistral:7b")
	assert.NotContains(t, out, "mistral:7b *")
}

func TestModelsCmd_NotRunning(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := runCmd(t, "--ollama-url", url, "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama serve")
}
