// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/framfs/cmd/framfs/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like check) return an
		// error carrying the exit code. Don't print a redundant
		// "error:" line for those.
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}

func run() error {
	return commands.Root(commands.DefaultEnv()).Execute(os.Args[1:])
}
