// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/framfs/lib/device"
)

// MountOption selects how [Filesystem.Mount] obtains its superblock.
type MountOption int

const (
	// MountReset formats the device: the superblock is reinitialized
	// to an empty filesystem and written out. Existing files are
	// forgotten (their bytes are not erased).
	MountReset MountOption = iota

	// MountLoad reads the superblock already on the device and
	// validates it.
	MountLoad
)

// String returns the option name.
func (option MountOption) String() string {
	switch option {
	case MountReset:
		return "reset"
	case MountLoad:
		return "load"
	default:
		return fmt.Sprintf("unknown(%d)", int(option))
	}
}

// ParseMountOption parses "reset" or "load".
func ParseMountOption(name string) (MountOption, error) {
	switch name {
	case "reset":
		return MountReset, nil
	case "load":
		return MountLoad, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadMountOption, name)
	}
}

// Options configures a Filesystem.
type Options struct {
	// Logger receives Debug records for format, load, and create, and
	// a Warn record when a loaded image is rejected. Nil discards.
	Logger *slog.Logger
}

// Filesystem is a framfs instance bound to one device. It owns the
// in-memory superblock; File handles refer back into it.
//
// A Filesystem is not safe for concurrent use. Callers that share one
// across goroutines must serialize every call, including reads, since
// reads move the read cursor.
type Filesystem struct {
	device device.Device
	logger *slog.Logger

	image superblock

	// mounted is false until a successful Mount and after a failed
	// MountLoad. generation increments on every successful Mount and
	// is stamped into handles to detect use across remounts.
	mounted    bool
	generation uint64
}

// New binds a filesystem to dev. The filesystem starts unmounted; call
// Mount before any other operation.
func New(dev device.Device, options Options) (*Filesystem, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}
	size := dev.Size()
	if size < SuperblockSize {
		return nil, fmt.Errorf("%w: device is %d bytes, smaller than the %d-byte superblock",
			ErrInsufficientCapacity, size, SuperblockSize)
	}
	if size > MaxDeviceSize {
		return nil, fmt.Errorf("%w: device is %d bytes, larger than the addressable %d",
			ErrInvalidArgument, size, MaxDeviceSize)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Filesystem{
		device: dev,
		logger: logger,
	}, nil
}

// UsableSize returns the largest area size MountReset accepts: the
// device capacity minus the superblock.
func (fs *Filesystem) UsableSize() int {
	return int(fs.device.Size()) - SuperblockSize
}

// Mounted reports whether the filesystem has a valid mounted image.
func (fs *Filesystem) Mounted() bool {
	return fs.mounted
}

// Generation returns the current mount generation. It is zero before
// the first successful mount.
func (fs *Filesystem) Generation() uint64 {
	return fs.generation
}

// Mount formats or loads the filesystem. size is the allocatable area
// size for MountReset and is ignored by MountLoad.
//
// A failed MountReset leaves the previous state, mounted or not,
// untouched. A failed MountLoad leaves the filesystem unmounted.
func (fs *Filesystem) Mount(size int, option MountOption) error {
	switch option {
	case MountReset:
		return fs.reset(size)
	case MountLoad:
		return fs.load()
	default:
		return fmt.Errorf("%w: %d", ErrBadMountOption, int(option))
	}
}

// reset validates size before touching any state so that a rejected
// format keeps the prior image.
func (fs *Filesystem) reset(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: negative area size %d", ErrInvalidArgument, size)
	}
	if size > fs.UsableSize() {
		return fmt.Errorf("%w: requested %d bytes, %d usable", ErrInsufficientCapacity, size, fs.UsableSize())
	}

	next := superblock{
		areaStart:   SuperblockSize,
		allocCursor: SuperblockSize,
		areaEnd:     uint16(SuperblockSize + size),
	}
	if err := fs.save(&next); err != nil {
		return err
	}

	fs.image = next
	fs.mounted = true
	fs.generation++
	fs.logger.Debug("formatted filesystem",
		"area_size", size,
		"generation", fs.generation,
	)
	return nil
}

// load replaces the in-memory image with the one on the device. An
// image that fails validation is kept in memory for inspection but the
// filesystem is marked unmounted.
func (fs *Filesystem) load() error {
	raw := make([]byte, SuperblockSize)
	if _, err := fs.device.ReadAt(raw, 0); err != nil {
		return fmt.Errorf("reading superblock: %w", err)
	}
	image, err := decodeSuperblock(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptFilesystem, err)
	}

	fs.image = image
	if err := image.validate(fs.device.Size()); err != nil {
		fs.mounted = false
		fs.logger.Warn("rejected filesystem image", "error", err)
		return err
	}

	fs.mounted = true
	fs.generation++
	fs.logger.Debug("loaded filesystem",
		"files", image.recordCount,
		"free_bytes", int(image.areaEnd)-int(image.allocCursor),
		"generation", fs.generation,
	)
	return nil
}

// save writes image to offset 0 of the device.
func (fs *Filesystem) save(image *superblock) error {
	if _, err := fs.device.WriteAt(image.encode(), 0); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	return nil
}

// commit persists next and, only if that succeeds, makes it the live
// image. Existing handles stay valid: they address records by slot.
func (fs *Filesystem) commit(next *superblock) error {
	if err := fs.save(next); err != nil {
		return err
	}
	fs.image = *next
	return nil
}

// Create allocates a new file of exactly size bytes at the end of the
// allocated area and returns a handle to it. Names are compared byte
// for byte and must be 1 to MaxNameLen bytes with no NUL byte.
func (fs *Filesystem) Create(name string, size int) (*File, error) {
	if !fs.mounted {
		return nil, ErrNotMounted
	}
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return nil, fmt.Errorf("%w: file name %q", ErrInvalidArgument, name)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative file size %d", ErrInvalidArgument, size)
	}
	if fs.image.recordCount >= MaxFiles {
		return nil, fmt.Errorf("%w: all %d slots in use", ErrNoFreeSlots, MaxFiles)
	}
	if len(name) > MaxNameLen {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit %d", ErrNameTooLong, name, len(name), MaxNameLen)
	}
	if _, found := fs.lookup(name); found {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrZeroSizeFile, name)
	}
	if size > fs.FreeBytes() {
		return nil, fmt.Errorf("%w: %q needs %d bytes, %d free",
			ErrInsufficientSpace, name, size, fs.FreeBytes())
	}

	next := fs.image
	slot := int(next.recordCount)
	start := next.allocCursor
	end := start + uint16(size)

	r := &next.records[slot]
	*r = record{}
	copy(r.name[:], name)
	r.regionStart = start
	r.regionEnd = end
	r.writeCursor = start
	r.readCursor = start

	next.allocCursor = end
	next.recordCount++

	if err := fs.commit(&next); err != nil {
		return nil, err
	}

	fs.logger.Debug("created file",
		"name", name,
		"size", size,
		"region_start", start,
		"slot", slot,
	)
	return fs.handle(slot), nil
}

// Open returns a handle to the named file and rewinds its read cursor
// to the start of the file. The rewind is not persisted on its own.
func (fs *Filesystem) Open(name string) (*File, error) {
	if !fs.mounted {
		return nil, ErrNotMounted
	}
	slot, found := fs.lookup(name)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	r := &fs.image.records[slot]
	r.readCursor = r.regionStart
	return fs.handle(slot), nil
}

// lookup scans the used slots for an exact name match.
func (fs *Filesystem) lookup(name string) (int, bool) {
	for slot := range int(fs.image.recordCount) {
		if fs.image.records[slot].hasName(name) {
			return slot, true
		}
	}
	return 0, false
}

func (fs *Filesystem) handle(slot int) *File {
	return &File{
		fs:         fs,
		slot:       slot,
		generation: fs.generation,
	}
}
