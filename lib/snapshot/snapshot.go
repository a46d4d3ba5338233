// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"filippo.io/age"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/framfs/lib/clock"
	"github.com/bureau-foundation/framfs/lib/codec"
	"github.com/bureau-foundation/framfs/lib/device"
	"github.com/bureau-foundation/framfs/lib/framfs"
	"github.com/bureau-foundation/framfs/lib/version"
)

// Magic is the first four bytes of every snapshot file.
const Magic = "FRSN"

// FormatVersion is the manifest version written by Export. Import
// rejects any other version.
const FormatVersion = 1

const (
	// maxPayloadSize bounds the compressed or decrypted payload. No
	// stored form is larger than the image itself.
	maxPayloadSize = framfs.MaxDeviceSize

	// maxFileSize bounds how much of a snapshot file is read. It
	// leaves room for the manifest and for age headers with many
	// recipients.
	maxFileSize = 1 << 20
)

var (
	ErrBadMagic           = errors.New("snapshot: not a framfs snapshot")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")
	ErrMalformed          = errors.New("snapshot: malformed snapshot")
	ErrDeviceSizeMismatch = errors.New("snapshot: device size does not match snapshot")
	ErrIdentityRequired   = errors.New("snapshot: snapshot is encrypted and no identity was given")
	ErrDecrypt            = errors.New("snapshot: decryption failed")
	ErrDigestMismatch     = errors.New("snapshot: image digest mismatch")
)

// Digest is the keyed BLAKE3-256 hash of a raw device image.
type Digest [32]byte

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText encodes the digest as hex for JSON output. CBOR ignores
// it and stores the raw 32 bytes.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// imageDomainKey separates snapshot image digests from any other use
// of BLAKE3 over the same bytes.
var imageDomainKey = [32]byte{
	'f', 'r', 'a', 'm', 'f', 's', '.', 's', 'n', 'a', 'p', 's', 'h', 'o', 't', '.',
	'i', 'm', 'a', 'g', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

func hashImage(image []byte) Digest {
	hasher, err := blake3.NewKeyed(imageDomainKey[:])
	if err != nil {
		panic("snapshot: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(image)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// Manifest describes a snapshot. It is stored unencrypted ahead of the
// payload.
type Manifest struct {
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	Tool        string      `json:"tool"`
	DeviceSize  int64       `json:"device_size"`
	Compression Compression `json:"compression"`
	Encrypted   bool        `json:"encrypted"`
	Digest      Digest      `json:"digest"`

	// FileCount and FreeBytes summarize the image's superblock. File
	// names are not recorded.
	FileCount int `json:"file_count"`
	FreeBytes int `json:"free_bytes"`
}

// ExportOptions configures Export.
type ExportOptions struct {
	// Compression selects the payload compression. Empty means zstd.
	Compression Compression

	// Recipients, when non-empty, encrypt the payload so that any one
	// of them can decrypt it.
	Recipients []age.Recipient

	// Clock stamps CreatedAt. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives an Info record per export. Nil discards.
	Logger *slog.Logger
}

// Export reads the whole of dev and writes a snapshot of it to w. The
// device must hold a valid filesystem image.
func Export(w io.Writer, dev device.Device, options ExportOptions) (Manifest, error) {
	size := dev.Size()
	image := make([]byte, size)
	if _, err := dev.ReadAt(image, 0); err != nil {
		return Manifest{}, fmt.Errorf("reading device image: %w", err)
	}
	summary, err := framfs.Inspect(image, size)
	if err != nil {
		return Manifest{}, fmt.Errorf("device does not hold a valid filesystem: %w", err)
	}

	algorithm := options.Compression
	if algorithm == "" {
		algorithm = CompressionZstd
	}
	payload, used, err := compress(image, algorithm)
	if err != nil {
		return Manifest{}, err
	}
	if len(options.Recipients) > 0 {
		payload, err = encrypt(payload, options.Recipients)
		if err != nil {
			return Manifest{}, err
		}
	}

	now := options.Clock
	if now == nil {
		now = clock.Real()
	}
	manifest := Manifest{
		Version:     FormatVersion,
		CreatedAt:   now.Now().UTC().Truncate(time.Second),
		Tool:        "framfs " + version.Short(),
		DeviceSize:  size,
		Compression: used,
		Encrypted:   len(options.Recipients) > 0,
		Digest:      hashImage(image),
		FileCount:   summary.FileCount,
		FreeBytes:   summary.FreeBytes,
	}

	if _, err := io.WriteString(w, Magic); err != nil {
		return Manifest{}, fmt.Errorf("writing snapshot: %w", err)
	}
	encoder := codec.NewEncoder(w)
	if err := encoder.Encode(manifest); err != nil {
		return Manifest{}, fmt.Errorf("writing snapshot manifest: %w", err)
	}
	if err := encoder.Encode(payload); err != nil {
		return Manifest{}, fmt.Errorf("writing snapshot payload: %w", err)
	}

	logger(options.Logger).Info("exported snapshot",
		"device_size", size,
		"compression", used,
		"payload_bytes", len(payload),
		"encrypted", manifest.Encrypted,
		"files", summary.FileCount,
	)
	return manifest, nil
}

// ImportOptions configures Import.
type ImportOptions struct {
	// Identities decrypt encrypted snapshots. Ignored for plaintext
	// snapshots.
	Identities []age.Identity

	// Logger receives an Info record per import. Nil discards.
	Logger *slog.Logger
}

// Import reads a snapshot from r, verifies it against dev, and writes
// the image to dev. Nothing is written unless every check passes.
func Import(r io.Reader, dev device.Device, options ImportOptions) (Manifest, error) {
	manifest, payload, err := read(r)
	if err != nil {
		return Manifest{}, err
	}
	if manifest.DeviceSize != dev.Size() {
		return manifest, fmt.Errorf("%w: snapshot is %d bytes, device is %d",
			ErrDeviceSizeMismatch, manifest.DeviceSize, dev.Size())
	}

	if manifest.Encrypted {
		if len(options.Identities) == 0 {
			return manifest, ErrIdentityRequired
		}
		payload, err = decrypt(payload, options.Identities)
		if err != nil {
			return manifest, err
		}
	}

	image, err := decompress(payload, manifest.Compression, int(manifest.DeviceSize))
	if err != nil {
		return manifest, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if digest := hashImage(image); digest != manifest.Digest {
		return manifest, fmt.Errorf("%w: manifest has %s, image hashes to %s",
			ErrDigestMismatch, manifest.Digest, digest)
	}
	if _, err := framfs.Inspect(image, manifest.DeviceSize); err != nil {
		return manifest, fmt.Errorf("snapshot image does not hold a valid filesystem: %w", err)
	}

	if _, err := dev.WriteAt(image, 0); err != nil {
		return manifest, fmt.Errorf("writing device image: %w", err)
	}
	if syncer, ok := dev.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			return manifest, fmt.Errorf("syncing device: %w", err)
		}
	}

	logger(options.Logger).Info("imported snapshot",
		"device_size", manifest.DeviceSize,
		"created_at", manifest.CreatedAt,
		"files", manifest.FileCount,
	)
	return manifest, nil
}

// ReadManifest reads only as far as the manifest. The payload is not
// decrypted or verified.
func ReadManifest(r io.Reader) (Manifest, error) {
	manifest, _, err := read(r)
	return manifest, err
}

// DiagnoseManifest returns the manifest of the snapshot in r in CBOR
// diagnostic notation.
func DiagnoseManifest(r io.Reader) (string, error) {
	body, err := readBody(r)
	if err != nil {
		return "", err
	}
	notation, err := codec.Diagnose(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return notation, nil
}

// readBody reads the snapshot and returns everything after the magic.
func readBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrMalformed, maxFileSize)
	}
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return nil, ErrBadMagic
	}
	return data[len(Magic):], nil
}

// read parses and structurally checks a snapshot file.
func read(r io.Reader) (Manifest, []byte, error) {
	body, err := readBody(r)
	if err != nil {
		return Manifest{}, nil, err
	}

	var manifest Manifest
	rest, err := codec.UnmarshalFirst(body, &manifest)
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("%w: manifest: %v", ErrMalformed, err)
	}
	if manifest.Version != FormatVersion {
		return manifest, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, manifest.Version)
	}
	if _, err := ParseCompression(string(manifest.Compression)); err != nil {
		return manifest, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var payload []byte
	rest, err = codec.UnmarshalFirst(rest, &payload)
	if err != nil {
		return manifest, nil, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	if len(rest) != 0 {
		return manifest, nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(rest))
	}
	return manifest, payload, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
