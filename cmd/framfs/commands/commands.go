// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the framfs CLI command tree.
//
// Every command that touches a device opens the image file, mounts it,
// performs one operation, and closes it again. Nothing is cached across
// invocations: the superblock on the device is the only state.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/clock"
	"github.com/bureau-foundation/framfs/lib/version"
)

// Env holds the process resources commands read from and write to.
// Tests substitute buffers and a fake clock.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Clock  clock.Clock
}

// DefaultEnv returns an Env bound to the process's standard streams and
// the real clock.
func DefaultEnv() Env {
	return Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clock:  clock.Real(),
	}
}

// Root builds the complete framfs command tree.
func Root(env Env) *cli.Command {
	return &cli.Command{
		Name: "framfs",
		Description: `framfs: a flat file store for small FRAM devices.

Operates on a device image file that stands in for the FRAM part. Files
are preallocated at create time, written append-only, read at any
offset, and zeroed with clear. There is no delete.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			formatCommand(env),
			infoCommand(env),
			checkCommand(env),
			createCommand(env),
			statCommand(env),
			writeCommand(env),
			readCommand(env),
			clearCommand(env),
			exportCommand(env),
			importCommand(env),
			inspectCommand(env),
			keygenCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(env.Stdout, "framfs %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Format an 8 KiB device image",
				Command:     "framfs format -d fram.img --device-size 8192",
			},
			{
				Description: "Create a file and append to it",
				Command:     "framfs create -d fram.img boot.cnt 64 && echo -n 1 | framfs write -d fram.img boot.cnt",
			},
			{
				Description: "Show utilization",
				Command:     "framfs info -d fram.img",
			},
			{
				Description: "Back up the device to an encrypted snapshot",
				Command:     "framfs export -d fram.img backup.frsn --recipient age1...",
			},
		},
	}
}
