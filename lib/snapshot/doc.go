// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot exports a framfs device image to a portable file and
// restores it.
//
// A snapshot file is the 4-byte magic "FRSN" followed by a CBOR
// sequence of two items: a [Manifest] and a byte string holding the
// payload. The payload is the raw device image, optionally compressed
// (LZ4 block or zstd) and then optionally encrypted to one or more age
// X25519 recipients. The manifest is never encrypted, so [ReadManifest]
// can describe a snapshot without its key.
//
// [Import] verifies everything it can before touching the device: the
// magic, the format version, the device size, decryption,
// decompression, the BLAKE3 digest of the image, and the superblock
// itself (through [framfs.Inspect]). A snapshot that fails any check
// leaves the device exactly as it was.
package snapshot
