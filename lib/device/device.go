// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a read or write would touch bytes
// outside [0, Size()).
var ErrOutOfRange = errors.New("device: access out of range")

// Device is a fixed-capacity byte-addressable store.
//
// ReadAt fills p with the bytes at [off, off+len(p)). WriteAt stores p
// at [off, off+len(p)). Both either transfer every byte or return an
// error; a short transfer is always reported as an error.
type Device interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Size() int64
}

// CheckRange returns a wrapped [ErrOutOfRange] if [off, off+length) does
// not fit inside a device of the given size.
func CheckRange(off int64, length int, size int64) error {
	if off < 0 || length < 0 || off+int64(length) > size {
		return fmt.Errorf("%w: offset %d length %d on %d-byte device",
			ErrOutOfRange, off, length, size)
	}
	return nil
}
