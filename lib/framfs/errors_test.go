// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framfs

import (
	"errors"
	"fmt"
	"testing"
)

func TestFamily(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorFamily
	}{
		{nil, FamilyUnknown},
		{errors.New("unrelated"), FamilyUnknown},
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
		{fmt.Errorf("create %q: %w", "x", ErrNameTaken), FamilyLookup},
	}
	for _, tt := range tests {
		if got := Family(tt.err); got != tt.want {
			t.Errorf("Family(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestFamilyFromOperations(t *testing.T) {
	fs, _ := newMounted(t)
	file := mustCreate(t, fs, "f", 2)

	_, err := file.Write([]byte{1, 2, 3})
	if Family(err) != FamilyCapacity {
		t.Errorf("overflow family = %v, want capacity", Family(err))
	}
	_, err = fs.Open("missing")
	if Family(err) != FamilyLookup {
		t.Errorf("not found family = %v, want lookup", Family(err))
	}
}

func TestFamilyString(t *testing.T) {
	names := map[ErrorFamily]string{
		FamilyUnknown:    "unknown",
		FamilyCapacity:   "capacity",
		FamilyValidation: "validation",
		FamilyLookup:     "lookup",
		FamilyIntegrity:  "integrity",
	}
	for family, want := range names {
		if family.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(family), family.String(), want)
		}
	}
}
