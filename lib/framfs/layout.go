// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// On-device layout constants. These are format constants: changing any
// of them changes SuperblockSize and makes existing images unreadable.
const (
	// MaxFiles is the number of file record slots in the superblock.
	MaxFiles = 20

	// MaxNameLen is the maximum file name length in bytes. Names
	// shorter than this are zero-padded on the device.
	MaxNameLen = 10

	// RecordSize is the serialized size of one file record: the name
	// followed by four little-endian uint16 offsets (read cursor,
	// write cursor, region start, region end).
	RecordSize = MaxNameLen + 4*2

	// SuperblockSize is the serialized size of the whole superblock:
	// the record table followed by four little-endian uint16 fields
	// (record count, allocation cursor, area end, area start). The
	// allocatable area always begins at this offset.
	SuperblockSize = RecordSize*MaxFiles + 4*2

	// MaxDeviceSize is the largest device the format can address.
	// Every offset is stored as a uint16.
	MaxDeviceSize = math.MaxUint16

	// DefaultDeviceSize is the capacity of the reference 64 Kbit FRAM
	// part.
	DefaultDeviceSize = 8192
)

// record is one file slot. All offsets are absolute device offsets.
type record struct {
	name        [MaxNameLen]byte
	readCursor  uint16
	writeCursor uint16
	regionStart uint16
	regionEnd   uint16
}

// superblock is the in-memory mirror of bytes [0, SuperblockSize).
type superblock struct {
	records     [MaxFiles]record
	recordCount uint16
	allocCursor uint16
	areaEnd     uint16
	areaStart   uint16
}

// nameString returns the record name without its zero padding.
func (r *record) nameString() string {
	if index := bytes.IndexByte(r.name[:], 0); index >= 0 {
		return string(r.name[:index])
	}
	return string(r.name[:])
}

// hasName compares against the zero-padded form so that the comparison
// is byte exact and case sensitive.
func (r *record) hasName(name string) bool {
	if len(name) > MaxNameLen {
		return false
	}
	var padded [MaxNameLen]byte
	copy(padded[:], name)
	return r.name == padded
}

func (r *record) size() int       { return int(r.regionEnd) - int(r.regionStart) }
func (r *record) usedBytes() int  { return int(r.writeCursor) - int(r.regionStart) }
func (r *record) freeBytes() int  { return int(r.regionEnd) - int(r.writeCursor) }
func (r *record) readOffset() int { return int(r.readCursor) - int(r.regionStart) }

// encode serializes the superblock into its fixed on-device form.
func (s *superblock) encode() []byte {
	raw := make([]byte, SuperblockSize)
	offset := 0
	for i := range s.records {
		r := &s.records[i]
		copy(raw[offset:offset+MaxNameLen], r.name[:])
		offset += MaxNameLen
		for _, field := range [4]uint16{r.readCursor, r.writeCursor, r.regionStart, r.regionEnd} {
			binary.LittleEndian.PutUint16(raw[offset:], field)
			offset += 2
		}
	}
	for _, field := range [4]uint16{s.recordCount, s.allocCursor, s.areaEnd, s.areaStart} {
		binary.LittleEndian.PutUint16(raw[offset:], field)
		offset += 2
	}
	return raw
}

// decodeSuperblock parses raw without validating it. raw must be
// exactly SuperblockSize bytes.
func decodeSuperblock(raw []byte) (superblock, error) {
	var s superblock
	if len(raw) != SuperblockSize {
		return s, fmt.Errorf("superblock is %d bytes, want %d", len(raw), SuperblockSize)
	}

	offset := 0
	next := func() uint16 {
		value := binary.LittleEndian.Uint16(raw[offset:])
		offset += 2
		return value
	}

	for i := range s.records {
		r := &s.records[i]
		copy(r.name[:], raw[offset:offset+MaxNameLen])
		offset += MaxNameLen
		r.readCursor = next()
		r.writeCursor = next()
		r.regionStart = next()
		r.regionEnd = next()
	}
	s.recordCount = next()
	s.allocCursor = next()
	s.areaEnd = next()
	s.areaStart = next()
	return s, nil
}

// validate checks the structural invariants of a loaded superblock
// against a device of deviceSize bytes. The returned error wraps
// ErrCorruptFilesystem.
func (s *superblock) validate(deviceSize int64) error {
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrCorruptFilesystem, fmt.Sprintf(format, args...))
	}

	if int64(s.areaEnd) > deviceSize {
		return corrupt("area end %d exceeds device size %d", s.areaEnd, deviceSize)
	}
	if s.allocCursor > s.areaEnd {
		return corrupt("allocation cursor %d is past area end %d", s.allocCursor, s.areaEnd)
	}
	if s.recordCount > MaxFiles {
		return corrupt("record count %d exceeds %d slots", s.recordCount, MaxFiles)
	}
	if s.areaStart > s.allocCursor {
		return corrupt("area start %d is past allocation cursor %d", s.areaStart, s.allocCursor)
	}
	if s.areaStart != SuperblockSize {
		return corrupt("area start %d does not follow the %d-byte superblock", s.areaStart, SuperblockSize)
	}

	for i := range int(s.recordCount) {
		r := &s.records[i]
		if r.regionStart < s.areaStart || r.regionStart > r.regionEnd || r.regionEnd > s.allocCursor {
			return corrupt("record %d region [%d, %d) is outside allocated area [%d, %d)",
				i, r.regionStart, r.regionEnd, s.areaStart, s.allocCursor)
		}
		if r.writeCursor < r.regionStart || r.writeCursor > r.regionEnd {
			return corrupt("record %d write cursor %d is outside its region", i, r.writeCursor)
		}
		if r.readCursor < r.regionStart || r.readCursor > r.regionEnd {
			return corrupt("record %d read cursor %d is outside its region", i, r.readCursor)
		}
	}
	return nil
}

// Summary describes a serialized superblock without mounting it.
type Summary struct {
	FileCount int `json:"file_count"`
	AreaSize  int `json:"area_size"`
	FreeBytes int `json:"free_bytes"`
}

// Inspect decodes and validates a raw superblock image taken from a
// device of deviceSize bytes. raw may be a whole device image; only the
// first SuperblockSize bytes are examined.
func Inspect(raw []byte, deviceSize int64) (Summary, error) {
	if len(raw) < SuperblockSize {
		return Summary{}, fmt.Errorf("%w: image is %d bytes, shorter than the %d-byte superblock",
			ErrCorruptFilesystem, len(raw), SuperblockSize)
	}
	image, err := decodeSuperblock(raw[:SuperblockSize])
	if err != nil {
		return Summary{}, err
	}
	if err := image.validate(deviceSize); err != nil {
		return Summary{}, err
	}
	return Summary{
		FileCount: int(image.recordCount),
		AreaSize:  int(image.areaEnd) - int(image.areaStart),
		FreeBytes: int(image.areaEnd) - int(image.allocCursor),
	}, nil
}
