// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/staranto/imgmin/internal/fingerprint"
)

// Default markers consulted while walking up from the project root.
var (
	DefaultDependencyStores = []string{"node_modules"}
	DefaultVCSMarkers       = []string{".git"}
)

// Prober answers whether a path exists. The resolver never creates anything.
type Prober interface {
	Exists(path string) bool
}

// FSProber probes a billy filesystem.
type FSProber struct {
	FS billy.Filesystem
}

// Exists reports whether any entry, file or directory, lives at path. A .git
// file (worktrees, submodules) is as good a marker as a .git directory.
func (p FSProber) Exists(path string) bool {
	_, err := p.FS.Stat(path)
	return err == nil
}

// Resolver chooses the cache directory for a project root.
type Resolver struct {
	// Name is the tool name used as a path component.
	Name string
	// TempDir is the global fallback base.
	TempDir string
	// DependencyStores are directory names whose presence in an ancestor
	// selects <ancestor>/<store>/.cache/<Name>/<hash(root)>.
	DependencyStores []string
	// VCSMarkers stop the upward search.
	VCSMarkers []string
	Probe      Prober
}

// Resolve walks from root toward the filesystem root. The first ancestor
// holding a dependency store wins. An ancestor holding a VCS marker ends the
// search early. Either way, with no store found the result is
// <TempDir>/<Name>/<hash(root)>.
func (r Resolver) Resolve(root string) string {
	hash := HashRoot(root)

	dir := filepath.Clean(root)
	for {
		for _, store := range r.DependencyStores {
			candidate := filepath.Join(dir, store)
			if r.Probe.Exists(candidate) {
				return filepath.Join(candidate, ".cache", r.Name, hash)
			}
		}

		if r.hasVCSMarker(dir) {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(r.TempDir, r.Name, hash)
}

func (r Resolver) hasVCSMarker(dir string) bool {
	for _, marker := range r.VCSMarkers {
		if r.Probe.Exists(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

// HashRoot returns the directory-safe digest of a project root path.
func HashRoot(root string) string {
	return fingerprint.Content([]byte(root)).String()
}
