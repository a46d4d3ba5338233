// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

import "fmt"

// ReadPolicy controls what happens to the read cursor after a read.
type ReadPolicy int

const (
	// ResetCursor rewinds the read cursor to the start of the file
	// after the read.
	ResetCursor ReadPolicy = iota

	// KeepCursor leaves the read cursor where it was before the read.
	// It is not advanced: repeated KeepCursor reads return the same
	// bytes until a Seek moves the cursor.
	KeepCursor
)

// File is a handle to one file record in a mounted Filesystem. It holds
// no state of its own; every handle to the same file observes the same
// cursors.
type File struct {
	fs         *Filesystem
	slot       int
	generation uint64
}

// FileInfo is a point-in-time description of a file.
type FileInfo struct {
	Name       string `json:"name"`
	Size       int    `json:"size"`
	UsedBytes  int    `json:"used_bytes"`
	FreeBytes  int    `json:"free_bytes"`
	ReadOffset int    `json:"read_offset"`
}

// record resolves the handle to its live record, rejecting nil handles,
// unmounted filesystems, and handles from an earlier mount generation.
func (f *File) record() (*record, error) {
	if f == nil || f.fs == nil {
		return nil, fmt.Errorf("%w: nil handle", ErrInvalidHandle)
	}
	if !f.fs.mounted {
		return nil, ErrNotMounted
	}
	if f.generation != f.fs.generation {
		return nil, fmt.Errorf("%w: handle from mount generation %d, filesystem is at %d",
			ErrInvalidHandle, f.generation, f.fs.generation)
	}
	if f.slot < 0 || f.slot >= int(f.fs.image.recordCount) {
		return nil, fmt.Errorf("%w: slot %d not in use", ErrInvalidHandle, f.slot)
	}
	return &f.fs.image.records[f.slot], nil
}

// Write appends data at the write cursor, advances the cursor by
// len(data), and persists the superblock. A write that does not fit in
// the remaining region is rejected without touching the device.
func (f *File) Write(data []byte) (int, error) {
	r, err := f.record()
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, fmt.Errorf("%w: nil data", ErrInvalidBuffer)
	}
	if len(data) == 0 {
		return 0, ErrZeroLength
	}
	if len(data) > r.freeBytes() {
		return 0, fmt.Errorf("%w: writing %d bytes to %q with %d free",
			ErrOverflow, len(data), r.nameString(), r.freeBytes())
	}

	if _, err := f.fs.device.WriteAt(data, int64(r.writeCursor)); err != nil {
		return 0, fmt.Errorf("writing %d bytes to %q: %w", len(data), r.nameString(), err)
	}

	next := f.fs.image
	next.records[f.slot].writeCursor += uint16(len(data))
	if err := f.fs.commit(&next); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Read fills p with len(p) bytes starting at the read cursor. With
// ResetCursor the cursor returns to the start of the file afterwards;
// with KeepCursor it stays where it was. Reads never persist the
// superblock.
func (f *File) Read(p []byte, policy ReadPolicy) (int, error) {
	r, err := f.record()
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("%w: nil destination", ErrInvalidBuffer)
	}
	if len(p) == 0 {
		return 0, ErrZeroLength
	}
	if len(p) > r.size()-r.readOffset() {
		return 0, fmt.Errorf("%w: reading %d bytes from %q at offset %d of %d",
			ErrOverflow, len(p), r.nameString(), r.readOffset(), r.size())
	}

	readCount, err := f.fs.device.ReadAt(p, int64(r.readCursor))
	if err != nil {
		return readCount, fmt.Errorf("reading %d bytes from %q: %w", len(p), r.nameString(), err)
	}
	if policy == ResetCursor {
		r.readCursor = r.regionStart
	}
	return readCount, nil
}

// Seek moves the read cursor to offset bytes from the start of the
// file. offset may equal the file size. The write cursor is unaffected.
func (f *File) Seek(offset int) error {
	r, err := f.record()
	if err != nil {
		return err
	}
	if offset < 0 {
		return fmt.Errorf("%w: negative seek offset %d", ErrInvalidArgument, offset)
	}
	if offset > r.size() {
		return fmt.Errorf("%w: seeking to %d in %d-byte file %q",
			ErrOverflow, offset, r.size(), r.nameString())
	}
	r.readCursor = r.regionStart + uint16(offset)
	return nil
}

// Tell returns the read cursor as an offset from the start of the file.
func (f *File) Tell() (int, error) {
	r, err := f.record()
	if err != nil {
		return 0, err
	}
	return r.readOffset(), nil
}

// Clear zeroes every byte of the file region, one single-byte device
// write per byte in ascending order, then rewinds both cursors and
// persists the superblock. The file keeps its name and region.
func (f *File) Clear() error {
	r, err := f.record()
	if err != nil {
		return err
	}

	zero := []byte{0}
	for offset := int64(r.regionStart); offset < int64(r.regionEnd); offset++ {
		if _, err := f.fs.device.WriteAt(zero, offset); err != nil {
			return fmt.Errorf("clearing %q at device offset %d: %w", r.nameString(), offset, err)
		}
	}

	next := f.fs.image
	cleared := &next.records[f.slot]
	cleared.readCursor = cleared.regionStart
	cleared.writeCursor = cleared.regionStart
	return f.fs.commit(&next)
}

// Stat describes the file.
func (f *File) Stat() (FileInfo, error) {
	r, err := f.record()
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:       r.nameString(),
		Size:       r.size(),
		UsedBytes:  r.usedBytes(),
		FreeBytes:  r.freeBytes(),
		ReadOffset: r.readOffset(),
	}, nil
}

// Name returns the file name, or "" for an invalid handle.
func (f *File) Name() string {
	r, err := f.record()
	if err != nil {
		return ""
	}
	return r.nameString()
}

// Size returns the region size in bytes, or 0 for an invalid handle.
func (f *File) Size() int {
	r, err := f.record()
	if err != nil {
		return 0
	}
	return r.size()
}

// UsedBytes returns the number of bytes written since creation or the
// last Clear, or 0 for an invalid handle.
func (f *File) UsedBytes() int {
	r, err := f.record()
	if err != nil {
		return 0
	}
	return r.usedBytes()
}

// FreeBytes returns the bytes left before a Write overflows, or 0 for
// an invalid handle.
func (f *File) FreeBytes() int {
	r, err := f.record()
	if err != nil {
		return 0
	}
	return r.freeBytes()
}
