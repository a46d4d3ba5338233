// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for framfs packages.
//
// [RecordingDevice] wraps a device and records every ReadAt and WriteAt
// call, so tests can assert on the exact I/O an operation performs:
// that metadata is written through to offset 0, that a clear issues one
// single-byte write per byte, or that a rejected operation touches
// nothing at all.
//
// [FaultyDevice] wraps a device and fails I/O on demand, so tests can
// check that device errors surface to callers and that in-memory state
// is not advanced past a failed persist.
//
// [NewMemory] builds a memory device and fails the test on error.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
