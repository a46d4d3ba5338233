// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/framfs"
)

type infoParams struct {
	deviceParams
	cli.JSONOutput
}

type infoResult struct {
	Device string `json:"device"`
	framfs.Stats
}

func infoCommand(env Env) *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show filesystem utilization",
		Description: `Mount the device image and report its capacity, free space, and slot
usage. Fails if the image does not hold a valid filesystem.`,
		Usage:  "framfs info [flags]",
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}

			s, err := params.mount(env)
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			result := infoResult{Device: s.config.Device.Path, Stats: s.fs.Stats()}
			if done, err := params.EmitJSON(env.Stdout, result); done {
				return err
			}

			output := newTable(env.Stdout)
			output.row("device", "%s", result.Device)
			output.row("device size", "%s", bytesValue(result.DeviceSize))
			output.row("area", "%s", bytesValue(result.AreaSize))
			output.row("allocated", "%s", bytesValue(result.UsedBytes))
			output.row("free", "%s", bytesValue(result.FreeBytes))
			output.row("files", "%d of %d slots", result.FileCount, result.TotalSlots)
			return output.flush()
		},
	}
}
