// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

import (
	"testing"

	"github.com/bureau-foundation/framfs/lib/device"
	"github.com/bureau-foundation/framfs/lib/testutil"
)

// newMounted returns a freshly formatted filesystem over a memory
// device of DefaultDeviceSize that uses the whole usable area.
func newMounted(t *testing.T) (*Filesystem, *device.Memory) {
	t.Helper()
	memory := testutil.NewMemory(t, DefaultDeviceSize)
	fs, err := New(memory, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := fs.Mount(fs.UsableSize(), MountReset); err != nil {
		t.Fatalf("Mount(reset): %v", err)
	}
	return fs, memory
}

// mustCreate creates a file or fails the test.
func mustCreate(t *testing.T, fs *Filesystem, name string, size int) *File {
	t.Helper()
	file, err := fs.Create(name, size)
	if err != nil {
		t.Fatalf("Create(%q, %d): %v", name, size, err)
	}
	return file
}

// onDevice decodes the superblock currently stored on memory.
func onDevice(t *testing.T, memory *device.Memory) superblock {
	t.Helper()
	image, err := decodeSuperblock(memory.Bytes()[:SuperblockSize])
	if err != nil {
		t.Fatalf("decodeSuperblock: %v", err)
	}
	return image
}
