// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Framfs is the operator CLI for framfs device images. It provides
// subcommands for formatting and checking an image (format, info,
// check), working with files (create, stat, write, read, clear), and
// backing up and restoring the whole device (export, import, inspect,
// keygen).
package main
