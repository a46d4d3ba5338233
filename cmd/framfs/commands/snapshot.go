// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/snapshot"
)

type exportParams struct {
	deviceParams
	Compression string   `json:"compression" flag:"compression" desc:"payload compression: none, lz4 or zstd (default: snapshot.compression)"`
	Recipients  []string `json:"recipients"  flag:"recipient,r" desc:"encrypt to this age public key (repeatable; default: snapshot.recipients)"`
}

func exportCommand(env Env) *cli.Command {
	var params exportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Write a snapshot of the device image",
		Description: `Copy the whole device image into a snapshot file: a manifest (size,
digest, creation time, file count) followed by the compressed and
optionally age-encrypted image. Use "-" to write to standard output.

The device must hold a valid filesystem.`,
		Usage: "framfs export <snapshot> [flags]",
		Examples: []cli.Example{
			{
				Description: "Back up with lz4 compression",
				Command:     "framfs export -d fram.img backup.frsn --compression lz4",
			},
			{
				Description: "Encrypt to a key made with 'framfs keygen'",
				Command:     "framfs export -d fram.img backup.frsn -r age1...",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs export <snapshot>")
			}
			target := args[0]

			s, err := params.open(env, false, 0)
			if err != nil {
				return err
			}
			defer s.closeInto(&err)

			options, err := params.exportOptions(env, s)
			if err != nil {
				return err
			}

			if target == "-" {
				_, err := snapshot.Export(env.Stdout, s.device, options)
				return err
			}

			var manifest snapshot.Manifest
			err = writeFileAtomic(target, func(w io.Writer) error {
				var exportErr error
				manifest, exportErr = snapshot.Export(w, s.device, options)
				return exportErr
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "exported %s to %s: %d files, %s, digest %s\n",
				s.config.Device.Path, target, manifest.FileCount, describePayload(manifest), manifest.Digest)
			return nil
		},
	}
}

func (p *exportParams) exportOptions(env Env, s *session) (snapshot.ExportOptions, error) {
	name := p.Compression
	if name == "" {
		name = s.config.Snapshot.Compression
	}
	compression, err := snapshot.ParseCompression(name)
	if err != nil {
		return snapshot.ExportOptions{}, err
	}

	keys := p.Recipients
	if len(keys) == 0 {
		keys = s.config.Snapshot.Recipients
	}
	recipients, err := snapshot.ParseRecipients(keys)
	if err != nil {
		return snapshot.ExportOptions{}, err
	}

	return snapshot.ExportOptions{
		Compression: compression,
		Recipients:  recipients,
		Clock:       env.Clock,
		Logger:      s.logger,
	}, nil
}

// writeFileAtomic writes path through a temporary file in the same
// directory, renaming it into place only after write succeeds.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	temporary, err := os.CreateTemp(filepath.Dir(path), ".framfs-*.tmp")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(temporary.Name())

	if err := write(temporary); err != nil {
		temporary.Close()
		return err
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}

	// Sync the parent directory so the rename itself is durable.
	if parentDirectory, err := os.Open(filepath.Dir(path)); err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}

type importParams struct {
	deviceParams
	Identity string `json:"identity" flag:"identity,i" desc:"age identity file for encrypted snapshots (default: snapshot.identity_file)"`
}

func importCommand(env Env) *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Restore a device image from a snapshot",
		Description: `Verify a snapshot and write its image to the device. The magic,
format version, device size, digest, and superblock are all checked
before anything is written; a snapshot that fails any check leaves the
device untouched. Use "-" to read from standard input.

A device image that does not exist yet is created at the snapshot's
device size.`,
		Usage: "framfs import <snapshot> [flags]",
		Examples: []cli.Example{
			{
				Description: "Restore an encrypted backup",
				Command:     "framfs import -d fram.img backup.frsn -i framfs.key",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) (err error) {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs import <snapshot>")
			}
			data, err := readSnapshot(env, args[0])
			if err != nil {
				return err
			}
			manifest, err := snapshot.ReadManifest(bytes.NewReader(data))
			if err != nil {
				return err
			}

			s, err := params.open(env, true, manifest.DeviceSize)
			if err != nil {
				return err
			}

			var identities []age.Identity
			if manifest.Encrypted {
				identities, err = params.identities(s)
				if err != nil {
					s.discard()
					return err
				}
			}

			manifest, err = snapshot.Import(bytes.NewReader(data), s.device, snapshot.ImportOptions{
				Identities: identities,
				Logger:     s.logger,
			})
			if err != nil {
				s.discard()
				return err
			}
			defer s.closeInto(&err)

			fmt.Fprintf(env.Stdout, "imported %s into %s: %d files, created %s\n",
				args[0], s.config.Device.Path, manifest.FileCount, manifest.CreatedAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func (p *importParams) identities(s *session) ([]age.Identity, error) {
	path := p.Identity
	if path == "" {
		path = s.config.Snapshot.IdentityFile
	}
	if path == "" {
		return nil, fmt.Errorf("%w: pass --identity or set snapshot.identity_file", snapshot.ErrIdentityRequired)
	}
	return snapshot.ReadIdentityFile(path)
}

func readSnapshot(env Env, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(env.Stdin)
	}
	return os.ReadFile(path)
}

type inspectParams struct {
	cli.JSONOutput
	Diagnostic bool `json:"diagnostic" flag:"diagnostic" desc:"print the raw manifest in CBOR diagnostic notation"`
}

func inspectCommand(env Env) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show a snapshot's manifest",
		Description: `Read a snapshot's manifest without decrypting or restoring it. The
manifest is never encrypted, so no identity is needed.`,
		Usage:  "framfs inspect <snapshot> [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: framfs inspect <snapshot>")
			}
			data, err := readSnapshot(env, args[0])
			if err != nil {
				return err
			}

			if params.Diagnostic {
				notation, err := snapshot.DiagnoseManifest(bytes.NewReader(data))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(env.Stdout, notation)
				return err
			}

			manifest, err := snapshot.ReadManifest(bytes.NewReader(data))
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, manifest); done {
				return err
			}

			output := newTable(env.Stdout)
			output.row("version", "%d", manifest.Version)
			output.row("created", "%s", manifest.CreatedAt.UTC().Format(time.RFC3339))
			output.row("tool", "%s", manifest.Tool)
			output.row("device size", "%s", bytesValue(int(manifest.DeviceSize)))
			output.row("payload", "%s", describePayload(manifest))
			output.row("files", "%d", manifest.FileCount)
			output.row("free", "%s", bytesValue(manifest.FreeBytes))
			output.row("digest", "%s", manifest.Digest)
			return output.flush()
		},
	}
}

func describePayload(manifest snapshot.Manifest) string {
	if manifest.Encrypted {
		return string(manifest.Compression) + ", encrypted"
	}
	return string(manifest.Compression)
}

type keygenParams struct {
	Output string `json:"output" flag:"output,o" desc:"write the identity to this file instead of standard output"`
}

func keygenCommand(env Env) *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity for snapshot encryption",
		Description: `Generate an age X25519 keypair. The identity file holds the secret
key and is what 'framfs import --identity' reads. The public key goes in
'framfs export --recipient' or snapshot.recipients.`,
		Usage: "framfs keygen [flags]",
		Examples: []cli.Example{
			{
				Description: "Write a new identity and print its public key",
				Command:     "framfs keygen -o framfs.key",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			identity, err := snapshot.GenerateIdentity()
			if err != nil {
				return err
			}
			contents := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n",
				env.Clock.Now().UTC().Format(time.RFC3339), identity.PublicKey, identity.PrivateKey)

			if params.Output == "" {
				_, err := io.WriteString(env.Stdout, contents)
				return err
			}

			file, err := os.OpenFile(params.Output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				if errors.Is(err, os.ErrExist) {
					return fmt.Errorf("%s already exists; refusing to overwrite an identity", params.Output)
				}
				return err
			}
			if _, err := io.WriteString(file, contents); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "Public key: %s\n", identity.PublicKey)
			return nil
		},
	}
}
