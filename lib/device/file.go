// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package device

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

// File is a fixed-size file used as a persistent device image. Reads
// go through a read-only shared memory map; writes use pwrite so the
// kernel updates the mapping without read-before-write page faults.
//
// File is not safe for concurrent writers. Callers serialize access.
type File struct {
	path string
	fd   int
	data []byte // mmap'd MAP_SHARED, PROT_READ
	size int64
}

// OpenFile creates or opens a device image at path. A missing or empty
// file is extended to size bytes (zero-filled). An existing file of a
// different size is rejected: a device never changes capacity.
func OpenFile(path string, size int64) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("device size must be positive, got %d", size)
	}

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening device image %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stating device image %s: %w", path, err)
	}

	if stat.Size == 0 {
		if err := unix.Ftruncate(fd, size); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("extending device image to %d bytes: %w", size, err)
		}
	} else if stat.Size != size {
		unix.Close(fd)
		return nil, fmt.Errorf("device image %s is %d bytes but %d was requested",
			path, stat.Size, size)
	}

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("memory-mapping device image: %w", err)
	}

	return &File{
		path: path,
		fd:   fd,
		data: data,
		size: size,
	}, nil
}

// ReadAt reads len(p) bytes starting at off through the memory map.
func (f *File) ReadAt(p []byte, off int64) (readCount int, err error) {
	if err := CheckRange(off, len(p), f.size); err != nil {
		return 0, err
	}

	// An I/O error on the backing file surfaces as SIGBUS on the
	// mapping. Turn it into an error instead of a crash.
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			err = fmt.Errorf("page fault reading %s at offset %d: %v", f.path, off, r)
		}
	}()

	return copy(p, f.data[off:]), nil
}

// WriteAt writes p at off with pwrite, retrying short writes until
// every byte is stored or an error occurs.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if err := CheckRange(off, len(p), f.size); err != nil {
		return 0, err
	}

	totalWritten := 0
	for len(p) > 0 {
		written, err := unix.Pwrite(f.fd, p, off)
		totalWritten += written
		if err != nil {
			return totalWritten, fmt.Errorf("pwrite to %s at offset %d: %w", f.path, off, err)
		}
		p = p[written:]
		off += int64(written)
	}
	return totalWritten, nil
}

// Size returns the device capacity in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Path returns the image file path.
func (f *File) Path() string {
	return f.path
}

// Sync flushes written bytes to stable storage.
func (f *File) Sync() error {
	if err := unix.Fsync(f.fd); err != nil {
		return fmt.Errorf("syncing %s: %w", f.path, err)
	}
	return nil
}

// Close unmaps the image and closes the file descriptor. Close does
// not sync; call Sync first when durability matters.
func (f *File) Close() error {
	var firstErr error
	if err := unix.Munmap(f.data); err != nil {
		firstErr = fmt.Errorf("unmapping %s: %w", f.path, err)
	}
	if err := unix.Close(f.fd); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing %s: %w", f.path, err)
	}
	f.data = nil
	f.fd = -1
	return firstErr
}
