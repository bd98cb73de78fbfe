// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=...".
var version = "0.1.0"

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	backend    string
	model      string
	ollamaURL  string
	plain      bool
	markdown   bool
	logLevel   string
	logFile    string

	// markdownSet is true when --markdown was given explicitly.
	markdownSet bool
}

// NewRootCmd builds the taails command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "taails",
		Short: "TaAils - chat with a language model in your terminal",
		Long: `TaAils is a single-window chat client. Type a message, press Enter,
and the answer from the model appears below it. The whole conversation
so far is sent with every question. Type exit to quit.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.markdownSet = cmd.Flags().Changed("markdown")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.taails/config.toml)")
	flags.StringVar(&opts.backend, "backend", "", "model backend: ollama, openai, anthropic, mock")
	flags.StringVar(&opts.model, "model", "", "model name for the selected backend")
	flags.StringVar(&opts.ollamaURL, "ollama-url", "", "Ollama server URL")
	flags.BoolVar(&opts.markdown, "markdown", false, "render answers as markdown")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default is $HOME/.taails/taails.log)")
	rootCmd.Flags().BoolVar(&opts.plain, "plain", false, "use the line-mode REPL instead of the full-screen window")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	rootCmd.AddCommand(
		newAskCmd(opts),
		newConfigCmd(opts),
		newModelsCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
