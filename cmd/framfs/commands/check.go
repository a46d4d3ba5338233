// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/framfs"
)

type checkParams struct {
	deviceParams
	cli.JSONOutput
}

type checkResult struct {
	Device string `json:"device"`
	Valid  bool   `json:"valid"`
	Files  int    `json:"files,omitempty"`
	Error  string `json:"error,omitempty"`
}

func checkCommand(env Env) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Validate the superblock of a device image",
		Description: `Load the superblock and run every consistency check a mount runs.
Exits 0 when the image is valid and 1 when it is not. Nothing is
written to the device.`,
		Usage:  "framfs check [flags]",
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}

			s, err := params.open(env, false, 0)
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			result := checkResult{Device: s.config.Device.Path}
			mountErr := s.fs.Mount(0, framfs.MountLoad)
			switch {
			case mountErr == nil:
				result.Valid = true
				result.Files = s.fs.FileCount()
			case errors.Is(mountErr, framfs.ErrCorruptFilesystem):
				result.Error = mountErr.Error()
			default:
				return mountErr
			}

			if done, err := params.EmitJSON(env.Stdout, result); done {
				if err != nil {
					return err
				}
				return checkExit(result)
			}

			output := newTable(env.Stdout)
			if result.Valid {
				output.row(result.Device, "%s (%d files)", output.ok.Render("ok"), result.Files)
			} else {
				output.row(result.Device, "%s: %s", output.bad.Render("corrupt"), result.Error)
			}
			if err := output.flush(); err != nil {
				return err
			}
			return checkExit(result)
		},
	}
}

func checkExit(result checkResult) error {
	if result.Valid {
		return nil
	}
	return &cli.ExitError{Code: 1}
}
