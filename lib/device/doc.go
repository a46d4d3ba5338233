// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package device provides the byte-addressable storage devices that a
// framfs filesystem runs on.
//
// A [Device] is a fixed-capacity array of bytes addressed by absolute
// offset. It exposes exactly two data primitives, a bounded range read
// and a bounded range write, plus its capacity. There is no buffering
// and no atomicity beyond "the bytes are written (or read) by the time
// the call returns." Callers are responsible for staying within
// [Device.Size]; implementations reject out-of-range access with
// [ErrOutOfRange] rather than truncating.
//
// Two implementations are provided:
//
//   - [Memory] -- a zero-filled byte slice, the equivalent of a RAM
//     stand-in for a FRAM chip. Used by tests and for dry runs.
//   - [File] -- a fixed-size file on disk, read through a shared
//     memory map and written with pwrite. Used by the framfs CLI to
//     persist an image between invocations.
//
// This package depends on no other framfs packages.
package device
