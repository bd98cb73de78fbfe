// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"fmt"
	"strings"
	"text/template"
)

// Prompt renders an Input into the single prompt string sent to a backend.
type Prompt struct {
	tmpl *template.Template
}

// NewPrompt parses a text/template with .Context and .Question fields.
func NewPrompt(text string) (*Prompt, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// Render executes the template for in.
func (p *Prompt) Render(in Input) (string, error) {
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, in); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}
