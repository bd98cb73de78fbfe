// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the taails command line.
//
// # Commands
//
//   - taails: open the chat window (or the plain REPL with --plain or
//     when stdin/stdout is not a terminal)
//   - taails ask QUESTION: one question, one answer, printed to stdout
//   - taails config init | path: manage ~/.taails/config.toml
//   - taails version
//
// Flags override environment variables, which override the config file.
//
// # Usage
//
//	if err := cli.Execute(); err != nil {
//	    fmt.Fprintf(os.Stderr, "Error: %v\n", err)
//	    os.Exit(1)
//	}
package cli
