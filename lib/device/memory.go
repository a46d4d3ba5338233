// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "fmt"

// Memory is a Device backed by a byte slice. It is not safe for
// concurrent use.
type Memory struct {
	data []byte
}

// NewMemory returns a zero-filled memory device of the given size.
func NewMemory(size int64) (*Memory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memory device size must be positive, got %d", size)
	}
	return &Memory{data: make([]byte, size)}, nil
}

// NewMemoryFrom returns a memory device that uses image as its
// contents. The slice is not copied.
func NewMemoryFrom(image []byte) *Memory {
	return &Memory{data: image}
}

// ReadAt copies len(p) bytes starting at off into p.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if err := CheckRange(off, len(p), m.Size()); err != nil {
		return 0, err
	}
	return copy(p, m.data[off:]), nil
}

// WriteAt copies p into the device starting at off.
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if err := CheckRange(off, len(p), m.Size()); err != nil {
		return 0, err
	}
	return copy(m.data[off:], p), nil
}

// Size returns the device capacity in bytes.
func (m *Memory) Size() int64 {
	return int64(len(m.data))
}

// Bytes returns the live backing slice. Mutating it mutates the device.
func (m *Memory) Bytes() []byte {
	return m.data
}
