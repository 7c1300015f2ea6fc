// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/urfave/cli/v3"

	"github.com/staranto/imgmin/internal/cache"
	"github.com/staranto/imgmin/internal/cacheutil"
	"github.com/staranto/imgmin/internal/meta"
)

// hostFS is the filesystem commands read images from and keep caches in.
var hostFS billy.Filesystem = osfs.New("/")

// GetMeta returns the meta.Meta stored in the Metadata of cmd or its nearest
// ancestor. If missing or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil {
		return meta.Meta{}
	}
	for _, c := range cmd.Lineage() {
		if c.Metadata == nil {
			continue
		}
		if m, ok := c.Metadata["meta"].(meta.Meta); ok {
			return m
		}
	}
	return meta.Meta{}
}

// rootDir returns the absolute project root: --root when given, otherwise the
// directory the command started in.
func rootDir(cmd *cli.Command) (string, error) {
	root := cmd.String("root")
	if root == "" {
		root = GetMeta(cmd).RootDir
	}
	if root == "" {
		return "", fmt.Errorf("no project root")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	return filepath.Clean(abs), nil
}

// cacheOptions are the options every command opens or locates a cache with.
func cacheOptions() []cache.Option {
	return []cache.Option{
		cache.WithFilesystem(hostFS),
		cache.WithTempDir(cacheutil.TempDir()),
	}
}

// writer is where a command prints its report.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// absPath resolves p against the directory the command started in.
func absPath(cmd *cli.Command, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(GetMeta(cmd).StartingDir, p)
}

// relName shortens name to be relative to the starting directory when it is
// inside it.
func relName(m meta.Meta, name string) string {
	if m.StartingDir == "" {
		return name
	}
	rel, err := filepath.Rel(m.StartingDir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return name
	}
	return rel
}
