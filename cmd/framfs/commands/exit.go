// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"

	"github.com/bureau-foundation/framfs/lib/framfs"
	"github.com/bureau-foundation/framfs/lib/snapshot"
)

// Process exit codes. Filesystem errors map by family so scripts can
// tell "no such file" from "device full" without parsing messages.
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitLookup     = 3
	ExitCapacity   = 4
	ExitIntegrity  = 5
)

// ExitCode returns the process exit code for an error returned by a
// command. Errors without a more specific code exit with ExitFailure.
func ExitCode(err error) int {
	switch framfs.Family(err) {
	case framfs.FamilyValidation:
		return ExitValidation
	case framfs.FamilyLookup:
		return ExitLookup
	case framfs.FamilyCapacity:
		return ExitCapacity
	case framfs.FamilyIntegrity:
		return ExitIntegrity
	}

	switch {
	case errors.Is(err, snapshot.ErrBadMagic),
		errors.Is(err, snapshot.ErrUnsupportedVersion),
		errors.Is(err, snapshot.ErrMalformed),
		errors.Is(err, snapshot.ErrDigestMismatch):
		return ExitIntegrity
	case errors.Is(err, snapshot.ErrDeviceSizeMismatch):
		return ExitValidation
	default:
		return ExitFailure
	}
}
