// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jeranaias/taails/internal/delegate"
	"github.com/jeranaias/taails/internal/ollama"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			client := delegate.NewOllamaClient(cfg)
			ctx, cancel := context.WithTimeout(cmd.Context(), delegate.ProbeTimeout)
			defer cancel()

			models, err := client.ListModels(ctx)
			if err != nil {
				if ollama.IsNotRunning(err) {
					return fmt.Errorf("ollama is not running at %s (start it with: ollama serve)", cfg.Ollama.URL)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No models installed. Pull one with: ollama pull "+cfg.Ollama.Model))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
			for _, m := range models {
				name := m.Name
				if m.Name == cfg.Ollama.Model || m.Name == cfg.Ollama.Model+":latest" {
					name += " *"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, m.FormatSize(), m.ModifiedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}
