// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

// Stats is a snapshot of filesystem utilization.
type Stats struct {
	DeviceSize int    `json:"device_size"`
	AreaSize   int    `json:"area_size"`
	FreeBytes  int    `json:"free_bytes"`
	UsedBytes  int    `json:"used_bytes"`
	TotalSlots int    `json:"total_slots"`
	FreeSlots  int    `json:"free_slots"`
	FileCount  int    `json:"file_count"`
	Generation uint64 `json:"generation"`
}

// The accessors below have no side effects. On an unmounted filesystem
// every count except TotalSlots is zero.

// FreeBytes returns the unallocated bytes left in the area.
func (fs *Filesystem) FreeBytes() int {
	if !fs.mounted {
		return 0
	}
	return int(fs.image.areaEnd) - int(fs.image.allocCursor)
}

// Size returns the total size of the allocatable area.
func (fs *Filesystem) Size() int {
	if !fs.mounted {
		return 0
	}
	return int(fs.image.areaEnd) - int(fs.image.areaStart)
}

// FreeSlots returns the number of files that can still be created.
func (fs *Filesystem) FreeSlots() int {
	if !fs.mounted {
		return 0
	}
	return MaxFiles - int(fs.image.recordCount)
}

// TotalSlots returns MaxFiles.
func (fs *Filesystem) TotalSlots() int {
	return MaxFiles
}

// FileCount returns the number of files in use.
func (fs *Filesystem) FileCount() int {
	if !fs.mounted {
		return 0
	}
	return int(fs.image.recordCount)
}

// Stats collects every filesystem-level accessor.
func (fs *Filesystem) Stats() Stats {
	return Stats{
		DeviceSize: int(fs.device.Size()),
		AreaSize:   fs.Size(),
		FreeBytes:  fs.FreeBytes(),
		UsedBytes:  fs.Size() - fs.FreeBytes(),
		TotalSlots: fs.TotalSlots(),
		FreeSlots:  fs.FreeSlots(),
		FileCount:  fs.FileCount(),
		Generation: fs.generation,
	}
}
