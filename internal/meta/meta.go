// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/imgmin/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// RootDir is the project root the cache is keyed on. It defaults to
	// StartingDir and is always absolute.
	RootDir     string
	StartingDir string
}
