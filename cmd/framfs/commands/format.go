// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/framfs"
)

type formatParams struct {
	deviceParams
	Size int `json:"size" flag:"size" desc:"allocatable area in bytes, 0 for an empty area (default: filesystem.area_size, else the whole device)" default:"-1"`
}

func formatCommand(env Env) *cli.Command {
	var params formatParams

	return &cli.Command{
		Name:    "format",
		Summary: "Write an empty filesystem to a device image",
		Description: `Initialize the superblock of a device image, creating the image file
at --device-size bytes if it does not exist.

Existing files are forgotten. Their bytes stay on the device until a new
file is allocated over them.`,
		Usage: "framfs format [flags]",
		Examples: []cli.Example{
			{
				Description: "Format a new 8 KiB image using the whole device",
				Command:     "framfs format -d fram.img --device-size 8192",
			},
			{
				Description: "Reserve only 4 KiB for files",
				Command:     "framfs format -d fram.img --size 4096",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}

			s, err := params.open(env, true, 0)
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			size := params.Size
			if size < 0 {
				size = s.config.AreaSize(s.device.Size())
			}
			if err := s.fs.Mount(size, framfs.MountReset); err != nil {
				return fmt.Errorf("formatting %s: %w", s.config.Device.Path, err)
			}
			s.logger.Info("formatted device", "area_size", size)

			fmt.Fprintf(env.Stdout, "formatted %s: %s allocatable, %d file slots\n",
				s.config.Device.Path, bytesValue(s.fs.Size()), s.fs.TotalSlots())
			return nil
		},
	}
}
