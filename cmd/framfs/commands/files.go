// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/framfs"
)

func createCommand(env Env) *cli.Command {
	var params deviceParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a file with a fixed size",
		Description: `Allocate a new file of SIZE bytes at the end of the allocated area.
SIZE accepts plain byte counts or units ("64", "1KiB", "2k"). The size
cannot be changed later and the file cannot be deleted.`,
		Usage: "framfs create <name> <size> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a 64-byte boot counter",
				Command:     "framfs create -d fram.img boot.cnt 64",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 2 {
				return fmt.Errorf("usage: framfs create <name> <size>")
			}
			size, err := parseSize(args[1])
			if err != nil {
				return err
			}

			s, err := params.mount(env)
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			file, err := s.fs.Create(args[0], size)
			if err != nil {
				return err
			}
			s.logger.Info("created file", "name", file.Name(), "size", file.Size())
			fmt.Fprintf(env.Stdout, "created %s (%s)\n", file.Name(), bytesValue(file.Size()))
			return nil
		},
	}
}

// parseSize accepts a byte count with optional units. Sizes past the
// largest device are rejected here rather than truncated.
func parseSize(text string) (int, error) {
	size, err := humanize.ParseBytes(text)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", text, err)
	}
	if size > framfs.MaxDeviceSize {
		return 0, fmt.Errorf("%w: size %d exceeds the largest device (%d bytes)",
			framfs.ErrInsufficientCapacity, size, framfs.MaxDeviceSize)
	}
	return int(size), nil
}

type statParams struct {
	deviceParams
	cli.JSONOutput
}

func statCommand(env Env) *cli.Command {
	var params statParams

	return &cli.Command{
		Name:    "stat",
		Summary: "Show a file's size and usage",
		Usage:   "framfs stat <name> [flags]",
		Params:  func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs stat <name>")
			}

			s, file, err := params.openFile(env, args[0])
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			info, err := file.Stat()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, info); done {
				return err
			}

			output := newTable(env.Stdout)
			output.row("name", "%s", info.Name)
			output.row("size", "%s", bytesValue(info.Size))
			output.row("used", "%s", bytesValue(info.UsedBytes))
			output.row("free", "%s", bytesValue(info.FreeBytes))
			return output.flush()
		},
	}
}

type writeParams struct {
	deviceParams
	Data string `json:"data" flag:"data"   desc:"bytes to append, as a literal string"`
	File string `json:"file" flag:"file,f" desc:"append the contents of this file"`
}

func writeCommand(env Env) *cli.Command {
	var params writeParams

	return &cli.Command{
		Name:    "write",
		Summary: "Append data to a file",
		Description: `Append data at the file's write cursor. The data comes from --data,
--file, or standard input, in that order of preference. A write that
does not fit in the file's remaining space is rejected whole.`,
		Usage: "framfs write <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Append a literal string",
				Command:     "framfs write -d fram.img cal.dat --data 'offset=12'",
			},
			{
				Description: "Append from a pipe",
				Command:     "printf '\\x01\\x02' | framfs write -d fram.img boot.cnt",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs write <name>")
			}
			data, err := writeInput(env, &params)
			if err != nil {
				return err
			}

			s, file, err := params.openFile(env, args[0])
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			written, err := file.Write(data)
			if err != nil {
				return err
			}
			s.logger.Debug("wrote file", "name", file.Name(), "bytes", written)
			fmt.Fprintf(env.Stdout, "wrote %d bytes to %s (%d of %d used)\n",
				written, file.Name(), file.UsedBytes(), file.Size())
			return nil
		},
	}
}

func writeInput(env Env, params *writeParams) ([]byte, error) {
	switch {
	case params.Data != "" && params.File != "":
		return nil, errors.New("--data and --file are mutually exclusive")
	case params.Data != "":
		return []byte(params.Data), nil
	case params.File != "":
		data, err := os.ReadFile(params.File)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(io.LimitReader(env.Stdin, framfs.MaxDeviceSize+1))
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return data, nil
	}
}

type readParams struct {
	deviceParams
	Offset int `json:"offset" flag:"offset,o" desc:"start reading this many bytes into the file"`
	Length int `json:"length" flag:"length,n" desc:"bytes to read (default: up to the write cursor)" default:"-1"`
}

func readCommand(env Env) *cli.Command {
	var params readParams

	return &cli.Command{
		Name:    "read",
		Summary: "Copy file contents to standard output",
		Description: `Read raw bytes from a file. By default everything written so far is
read; --length may reach past the write cursor up to the end of the
file's region.`,
		Usage: "framfs read <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Dump a file as hex",
				Command:     "framfs read -d fram.img cal.dat | xxd",
			},
			{
				Description: "Read 4 bytes at offset 8",
				Command:     "framfs read -d fram.img cal.dat -o 8 -n 4",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs read <name>")
			}

			s, file, err := params.openFile(env, args[0])
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			if err := file.Seek(params.Offset); err != nil {
				return err
			}
			length := params.Length
			if length < 0 {
				length = max(file.UsedBytes()-params.Offset, 0)
			}
			if length == 0 {
				return nil
			}

			buffer := make([]byte, length)
			readCount, err := file.Read(buffer, framfs.ResetCursor)
			if err != nil {
				return err
			}
			_, err = env.Stdout.Write(buffer[:readCount])
			return err
		},
	}
}

func clearCommand(env Env) *cli.Command {
	var params deviceParams

	return &cli.Command{
		Name:    "clear",
		Summary: "Zero a file and rewind its cursors",
		Description: `Overwrite every byte of the file's region with zero and reset its
cursors to the start. The file keeps its name and size.`,
		Usage:  "framfs clear <name> [flags]",
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs clear <name>")
			}

			s, file, err := params.openFile(env, args[0])
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			if err := file.Clear(); err != nil {
				return err
			}
			s.logger.Info("cleared file", "name", file.Name())
			fmt.Fprintf(env.Stdout, "cleared %s (%s)\n", file.Name(), bytesValue(file.Size()))
			return nil
		},
	}
}
