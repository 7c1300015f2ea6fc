// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version carries the tool identity used for cache invalidation.
package version

// Name is the tool name. It names the cache subdirectory.
const Name = "imgmin"

// Version is overridden at build time with
// -ldflags "-X github.com/staranto/imgmin/internal/version.Version=v1.2.3".
var Version = "dev"
