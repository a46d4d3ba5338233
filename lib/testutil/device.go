// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"

	"github.com/bureau-foundation/framfs/lib/device"
)

// ErrInjected is the error returned by FaultyDevice for failed calls.
var ErrInjected = errors.New("testutil: injected device failure")

// NewMemory returns a zero-filled memory device or fails the test.
func NewMemory(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, size int64) *device.Memory {
	t.Helper()
	memory, err := device.NewMemory(size)
	if err != nil {
		t.Fatalf("creating %d-byte memory device: %v", size, err)
	}
	return memory
}

// Access is one recorded device call.
type Access struct {
	Offset int64
	Length int
}

// RecordingDevice forwards to an inner device and records each call.
type RecordingDevice struct {
	device.Device
	Reads  []Access
	Writes []Access
}

// NewRecordingDevice wraps inner.
func NewRecordingDevice(inner device.Device) *RecordingDevice {
	return &RecordingDevice{Device: inner}
}

// ReadAt records the access and forwards it.
func (d *RecordingDevice) ReadAt(p []byte, off int64) (int, error) {
	d.Reads = append(d.Reads, Access{Offset: off, Length: len(p)})
	return d.Device.ReadAt(p, off)
}

// WriteAt records the access and forwards it.
func (d *RecordingDevice) WriteAt(p []byte, off int64) (int, error) {
	d.Writes = append(d.Writes, Access{Offset: off, Length: len(p)})
	return d.Device.WriteAt(p, off)
}

// Reset forgets all recorded calls.
func (d *RecordingDevice) Reset() {
	d.Reads = nil
	d.Writes = nil
}

// WritesAt returns the recorded writes that started at offset.
func (d *RecordingDevice) WritesAt(offset int64) []Access {
	var matches []Access
	for _, access := range d.Writes {
		if access.Offset == offset {
			matches = append(matches, access)
		}
	}
	return matches
}

// FaultyDevice forwards to an inner device until told to fail.
//
// FailWritesAfter and FailReadsAfter count successful calls remaining
// before every subsequent call of that kind returns ErrInjected. A
// negative value (the default from NewFaultyDevice) never fails.
type FaultyDevice struct {
	device.Device
	FailWritesAfter int
	FailReadsAfter  int
}

// NewFaultyDevice wraps inner with failures disabled.
func NewFaultyDevice(inner device.Device) *FaultyDevice {
	return &FaultyDevice{Device: inner, FailWritesAfter: -1, FailReadsAfter: -1}
}

// ReadAt forwards or fails.
func (d *FaultyDevice) ReadAt(p []byte, off int64) (int, error) {
	if d.FailReadsAfter == 0 {
		return 0, ErrInjected
	}
	if d.FailReadsAfter > 0 {
		d.FailReadsAfter--
	}
	return d.Device.ReadAt(p, off)
}

// WriteAt forwards or fails.
func (d *FaultyDevice) WriteAt(p []byte, off int64) (int, error) {
	if d.FailWritesAfter == 0 {
		return 0, ErrInjected
	}
	if d.FailWritesAfter > 0 {
		d.FailWritesAfter--
	}
	return d.Device.WriteAt(p, off)
}
