// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "github.com/staranto/imgmin/internal/fingerprint"

// Noop is the Cache used when caching is disabled. Every Get misses.
type Noop struct{}

func (Noop) Get(fingerprint.Fingerprint) ([]byte, bool) { return nil, false }
func (Noop) Update(fingerprint.Fingerprint, []byte)     {}
func (Noop) Flush() error                               { return nil }

var (
	_ Cache = Noop{}
	_ Cache = (*Disk)(nil)
)
