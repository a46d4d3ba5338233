// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "framfs",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "info",
				Run: func(args []string) error {
					called = "info"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"info"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "info" {
		t.Errorf("dispatched to %q, want %q", called, "info")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "framfs",
		Subcommands: []*Command{
			{
				Name: "snapshot",
				Subcommands: []*Command{
					{
						Name: "export",
						Run: func(args []string) error {
							called = "snapshot export"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"snapshot", "export", "out.frsn"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "snapshot export" {
		t.Errorf("dispatched to %q, want %q", called, "snapshot export")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "out.frsn" {
		t.Errorf("args = %v, want [out.frsn]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var devicePath string
	var target string

	command := &Command{
		Name: "stat",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stat", pflag.ContinueOnError)
			flagSet.StringVar(&devicePath, "device", "/default.img", "device path")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--device", "/custom.img", "boot.cnt"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if devicePath != "/custom.img" {
		t.Errorf("devicePath = %q, want %q", devicePath, "/custom.img")
	}
	if target != "boot.cnt" {
		t.Errorf("target = %q, want %q", target, "boot.cnt")
	}
}

func TestCommand_Execute_Params(t *testing.T) {
	type params struct {
		Length int    `flag:"length,n" desc:"bytes to read" default:"-1"`
		Device string `flag:"device,d" desc:"device path"`
	}
	var bound params
	var receivedArgs []string

	command := &Command{
		Name:   "read",
		Params: func() any { return &bound },
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute([]string{"-d", "fram.img", "boot.cnt"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if bound.Device != "fram.img" {
		t.Errorf("Device = %q, want %q", bound.Device, "fram.img")
	}
	if bound.Length != -1 {
		t.Errorf("Length = %d, want default -1", bound.Length)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "boot.cnt" {
		t.Errorf("args = %v, want [boot.cnt]", receivedArgs)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "export",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
			flagSet.String("compression", "zstd", "payload compression")
			flagSet.StringArray("recipient", nil, "age recipient")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--compresion", "lz4"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --compression") {
		t.Errorf("error = %q, want suggestion for '--compression'", errStr)
	}
	if !strings.Contains(errStr, "compresion") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "info",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("info", pflag.ContinueOnError)
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "framfs",
		Subcommands: []*Command{
			{Name: "format"},
			{Name: "create"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"crate"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"create\"") {
		t.Errorf("error = %q, want suggestion for 'create'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "framfs",
		Subcommands: []*Command{
			{Name: "format"},
			{Name: "create"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var output bytes.Buffer
			ran := false
			command := &Command{
				Name:       "create",
				Summary:    "Create a file",
				HelpOutput: &output,
				Run: func(args []string) error {
					ran = true
					return nil
				},
			}

			if err := command.Execute([]string{helpArg}); err != nil {
				t.Fatalf("Execute(%q) error: %v", helpArg, err)
			}
			if ran {
				t.Errorf("Execute(%q) ran the command, want help only", helpArg)
			}
			if !strings.Contains(output.String(), "Create a file") {
				t.Errorf("help output = %q, want summary", output.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:        "framfs",
		HelpOutput:  &output,
		Subcommands: []*Command{{Name: "format", Summary: "Initialize a device"}},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("Execute() error = %v, want subcommand required", err)
	}
	if !strings.Contains(output.String(), "format") {
		t.Errorf("help output = %q, want the subcommand listing", output.String())
	}
}

func TestCommand_HelpOutputInherited(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:       "framfs",
		HelpOutput: &output,
		Subcommands: []*Command{
			{Name: "clear", Summary: "Zero a file", Run: func(args []string) error { return nil }},
		},
	}

	if err := root.Execute([]string{"clear", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(output.String(), "framfs clear") {
		t.Errorf("help output = %q, want the full command path", output.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	type params struct {
		Size int64 `flag:"size" desc:"device size in bytes"`
	}
	var bound params

	command := &Command{
		Name:        "format",
		Description: "Write an empty filesystem to the device.",
		Usage:       "framfs format [flags]",
		Params:      func() any { return &bound },
		Examples: []Example{
			{Description: "Format an 8 KiB image", Command: "framfs format -d fram.img --size 8192"},
		},
	}

	var output bytes.Buffer
	command.PrintHelp(&output)
	help := output.String()

	for _, want := range []string{
		"Write an empty filesystem",
		"Usage:\n  framfs format [flags]",
		"--size",
		"device size in bytes",
		"# Format an 8 KiB image",
		"framfs format -d fram.img --size 8192",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	if err.Error() != "exit code 3" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit code 3")
	}

	coder, ok := err.(interface{ ExitCode() int })
	if !ok {
		t.Fatal("ExitError does not implement ExitCode()")
	}
	if coder.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", coder.ExitCode())
	}
}
