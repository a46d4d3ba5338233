// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable wall clock.
//
// Code that stamps times into persisted data takes a Clock instead of
// calling time.Now directly:
//
//	options := snapshot.ExportOptions{Clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	options := snapshot.ExportOptions{Clock: c}
//	c.Advance(time.Hour)
package clock
