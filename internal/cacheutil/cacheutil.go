// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Usage summarizes what a cache directory holds on disk.
type Usage struct {
	Entries int
	Bytes   int64
	Newest  time.Time
}

// TempDir resolves the global fallback base for project caches.
// Precedence:
//  1. IMGMIN_CACHE_DIR, if set and non-empty
//  2. os.TempDir()
func TempDir() string {
	if c, ok := os.LookupEnv("IMGMIN_CACHE_DIR"); ok && c != "" {
		return c
	}
	return os.TempDir()
}

// Enabled returns true unless IMGMIN_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("IMGMIN_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// DirUsage walks dir and totals its regular files. A missing dir is empty.
func DirUsage(fsys billy.Filesystem, dir string) (Usage, error) {
	var u Usage
	err := util.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		u.Entries++
		u.Bytes += info.Size()
		if info.ModTime().After(u.Newest) {
			u.Newest = info.ModTime()
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return Usage{}, nil
	}
	if err != nil {
		return u, err
	}
	log.Debugf("cache %s holds %d files", filepath.Clean(dir), u.Entries)
	return u, nil
}
