// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package framfs implements a minimal flat file store for small,
// fixed-capacity byte-addressable persistent memory (FRAM-class
// devices addressed by byte offset).
//
// The device is split in two. Bytes [0, [SuperblockSize]) hold the
// superblock: a fixed table of [MaxFiles] file records plus the
// allocator bounds. Everything after it is the allocatable area, carved
// into named, fixed-size regions by a bump allocator in creation order.
// Regions are never freed, moved, or resized.
//
// Metadata is write-through: every mutating operation ([Filesystem.Mount],
// [Filesystem.Create], [File.Write], [File.Clear]) re-serializes the whole
// superblock to offset 0 before returning. There is no journal, so a
// power loss during that write can leave a torn superblock; a later
// [MountLoad] detects structural damage and fails with
// [ErrCorruptFilesystem] rather than repairing it.
//
// Each file has two cursors. The write cursor only moves forward as data
// is appended. The read cursor is positioned with [File.Seek], reset by
// [Filesystem.Open], and is NOT advanced by [File.Read]; a read either
// leaves it in place ([KeepCursor]) or rewinds it to the start of the
// file ([ResetCursor]).
//
// A [Filesystem] is a single-writer object with no internal locking.
// Handles returned by Create and Open refer back into the filesystem's
// record table, so cursor changes through one handle are visible through
// every other handle to the same file. Each successful mount starts a
// new generation; handles from an earlier generation fail with
// [ErrInvalidHandle].
//
// There is intentionally no delete, rename, resize, or listing
// operation.
package framfs
