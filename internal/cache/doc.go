// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache memoizes transformation results on disk, keyed by content
// fingerprint, so repeated runs against an unchanged project skip the work.
//
// A Disk cache resolves a per-project directory, loads meta.json, serves
// lookups from an in-memory pending map backed by blob files, and persists
// everything seen during the run on Flush. Noop satisfies the same Cache
// interface when caching is disabled.
//
// Layout of a cache directory:
//
//	meta.json      {"version": ..., "root": ..., "files": [...], "time": ...}
//	<fingerprint>  raw result bytes
package cache
