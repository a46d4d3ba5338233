// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the framfs
// tools.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/framfs/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/framfs
//
// They default to "unknown" / "0.1.0-dev" during development builds
// and test runs.
package version
