// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/staranto/imgmin/internal/version"
)

type options struct {
	fs               billy.Filesystem
	name             string
	tempDir          string
	dependencyStores []string
	vcsMarkers       []string
	now              func() time.Time
}

func defaultOptions() options {
	return options{
		name:             version.Name,
		tempDir:          os.TempDir(),
		dependencyStores: DefaultDependencyStores,
		vcsMarkers:       DefaultVCSMarkers,
		now:              time.Now,
	}
}

// Option configures a Disk cache.
type Option func(*options)

// WithFilesystem sets the filesystem holding the project tree and the cache.
// Defaults to the host filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithName sets the tool name used in cache paths.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTempDir sets the global fallback base. Empty keeps the default.
func WithTempDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.tempDir = dir
		}
	}
}

// WithDependencyStores replaces the dependency-store marker names.
func WithDependencyStores(names ...string) Option {
	return func(o *options) {
		o.dependencyStores = names
	}
}

// WithVCSMarkers replaces the version-control marker names.
func WithVCSMarkers(names ...string) Option {
	return func(o *options) {
		o.vcsMarkers = names
	}
}

// WithClock sets the time source stamped into meta.json.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func (o options) filesystem() billy.Filesystem {
	if o.fs != nil {
		return o.fs
	}
	return osfs.New("/")
}

func (o options) resolver(fsys billy.Filesystem) Resolver {
	return Resolver{
		Name:             o.name,
		TempDir:          o.tempDir,
		DependencyStores: o.dependencyStores,
		VCSMarkers:       o.vcsMarkers,
		Probe:            FSProber{FS: fsys},
	}
}
