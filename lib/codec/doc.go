// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides framfs's CBOR encoding configuration.
//
// The on-device superblock is a fixed binary layout and does not go
// through this package. CBOR is used for the self-describing parts of
// the tooling: the manifest at the head of a snapshot file. JSON is
// used for CLI --json output.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same manifest always produces identical bytes.
//
//	data, err := codec.Marshal(manifest)
//	err = codec.Unmarshal(data, &manifest)
//
// Types that appear in both a snapshot manifest and CLI JSON output
// carry only `json` tags; fxamacker/cbor falls back to them when no
// `cbor` tag is present.
package codec
