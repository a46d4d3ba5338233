// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the framfs
// tools.
//
// Configuration is loaded from a single file specified by either the
// FRAMFS_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// Files ending in .json or .jsonc are passed through tidwall/jsonc first,
// so they may carry comments and trailing commas. Since YAML is a
// superset of JSON the result is parsed by the same decoder.
//
// ${HOME} and ${VAR:-default} patterns are expanded in path fields
// after loading.
package config
