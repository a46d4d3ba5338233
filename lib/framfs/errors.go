// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

import "errors"

// Errors returned by Filesystem and File operations. Operations wrap
// these with context; match them with errors.Is.
var (
	// Capacity errors.
	ErrInsufficientCapacity = errors.New("framfs: requested size exceeds usable device area")
	ErrInsufficientSpace    = errors.New("framfs: not enough free space in the allocatable area")
	ErrNoFreeSlots          = errors.New("framfs: no free file slots")
	ErrOverflow             = errors.New("framfs: access past the end of the file region")

	// Validation errors.
	ErrInvalidArgument = errors.New("framfs: invalid argument")
	ErrInvalidHandle   = errors.New("framfs: invalid file handle")
	ErrInvalidBuffer   = errors.New("framfs: invalid buffer")
	ErrZeroLength      = errors.New("framfs: zero-length transfer")
	ErrZeroSizeFile    = errors.New("framfs: file size must be positive")
	ErrNameTooLong     = errors.New("framfs: file name too long")
	ErrBadMountOption  = errors.New("framfs: unknown mount option")

	// Lookup errors.
	ErrNotFound  = errors.New("framfs: file not found")
	ErrNameTaken = errors.New("framfs: file name already in use")

	// Integrity errors.
	ErrCorruptFilesystem = errors.New("framfs: corrupt filesystem image")
	ErrNotMounted        = errors.New("framfs: filesystem not mounted")
)

// ErrorFamily groups errors by the kind of condition that caused them.
type ErrorFamily int

const (
	// FamilyUnknown is returned for nil and for errors that did not
	// originate in this package (device I/O failures, for example).
	FamilyUnknown ErrorFamily = iota
	FamilyCapacity
	FamilyValidation
	FamilyLookup
	FamilyIntegrity
)

// String returns the lowercase family name.
func (family ErrorFamily) String() string {
	switch family {
	case FamilyCapacity:
		return "capacity"
	case FamilyValidation:
		return "validation"
	case FamilyLookup:
		return "lookup"
	case FamilyIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

var errorFamilies = []struct {
	err    error
	family ErrorFamily
}{
	{ErrInsufficientCapacity, FamilyCapacity},
	{ErrInsufficientSpace, FamilyCapacity},
	{ErrNoFreeSlots, FamilyCapacity},
	{ErrOverflow, FamilyCapacity},
	{ErrInvalidArgument, FamilyValidation},
	{ErrInvalidHandle, FamilyValidation},
	{ErrInvalidBuffer, FamilyValidation},
	{ErrZeroLength, FamilyValidation},
	{ErrZeroSizeFile, FamilyValidation},
	{ErrNameTooLong, FamilyValidation},
	{ErrBadMountOption, FamilyValidation},
	{ErrNotFound, FamilyLookup},
	{ErrNameTaken, FamilyLookup},
	{ErrCorruptFilesystem, FamilyIntegrity},
	{ErrNotMounted, FamilyIntegrity},
}

// Family reports which family err belongs to.
func Family(err error) ErrorFamily {
	if err == nil {
		return FamilyUnknown
	}
	for _, entry := range errorFamilies {
		if errors.Is(err, entry.err) {
			return entry.family
		}
	}
	return FamilyUnknown
}
