// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/staranto/imgmin/internal/cache"
	"github.com/staranto/imgmin/internal/minify"
)

// skipDirs are never descended into when walking a directory argument.
var skipDirs = append(append([]string{}, cache.DefaultDependencyStores...), cache.DefaultVCSMarkers...)

// collectFiles reads every path. Directories are walked and contribute only
// files a default encoder supports; files named directly are always read.
// Each file is read once even when named twice.
func collectFiles(fsys billy.Filesystem, paths []string) ([]minify.File, error) {
	seen := map[string]bool{}
	var names []string

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		var found []string
		err = util.Walk(fsys, p, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != p && isSkipped(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if info.Mode().IsRegular() && minify.Supported(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	files := make([]minify.File, 0, len(names))
	for _, name := range names {
		content, err := readAll(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		files = append(files, minify.File{Name: name, Content: content})
	}
	log.Debugf("collected %d files", len(files))
	return files, nil
}

func isSkipped(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func readAll(fsys billy.Filesystem, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeResults replaces each file that got smaller, keeping its mode.
func writeResults(fsys billy.Filesystem, results []minify.Result) (int, error) {
	written := 0
	for _, r := range results {
		if r.Skipped || r.Saved() <= 0 {
			continue
		}

		perm := fs.FileMode(0o644)
		if info, err := fsys.Stat(r.Name); err == nil {
			perm = info.Mode().Perm()
		}
		if err := util.WriteFile(fsys, r.Name, r.Data, perm); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", r.Name, err)
		}
		written++
	}
	return written, nil
}
