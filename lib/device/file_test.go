// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package device

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFileCreatesAtSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fram.img")

	file, err := OpenFile(path, 8192)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 8192 {
		t.Errorf("image size = %d, want 8192", info.Size())
	}
	if file.Size() != 8192 {
		t.Errorf("Size() = %d, want 8192", file.Size())
	}
}

func TestOpenFilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fram.img")

	file, err := OpenFile(path, 4096)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := file.WriteAt([]byte("persisted"), 100); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if err := file.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenFile(path, 4096)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	buffer := make([]byte, len("persisted"))
	if _, err := reopened.ReadAt(buffer, 100); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buffer) != "persisted" {
		t.Errorf("ReadAt = %q, want %q", buffer, "persisted")
	}
}

func TestOpenFileReadSeesWrite(t *testing.T) {
	file, err := OpenFile(filepath.Join(t.TempDir(), "fram.img"), 1024)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	if _, err := file.WriteAt([]byte{0xAA, 0xBB}, 1022); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	buffer := make([]byte, 2)
	if _, err := file.ReadAt(buffer, 1022); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(buffer, []byte{0xAA, 0xBB}) {
		t.Errorf("ReadAt = %x, want aabb", buffer)
	}
}

func TestOpenFileSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fram.img")
	if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := OpenFile(path, 200); err == nil {
		t.Fatal("OpenFile should reject an image with a different size")
	}
}

func TestFileOutOfRange(t *testing.T) {
	file, err := OpenFile(filepath.Join(t.TempDir(), "fram.img"), 512)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	if _, err := file.WriteAt(make([]byte, 2), 511); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteAt error = %v, want ErrOutOfRange", err)
	}
	if _, err := file.ReadAt(make([]byte, 2), 511); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadAt error = %v, want ErrOutOfRange", err)
	}
}
