// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/imgmin/internal/cache"
	"github.com/staranto/imgmin/internal/cacheutil"
	"github.com/staranto/imgmin/internal/meta"
	"github.com/staranto/imgmin/internal/output"
	"github.com/staranto/imgmin/internal/version"
)

// infoColumns are the columns of `cache info`.
var infoColumns = []string{"dir", "version", "root", "entries", "size", "updated", "age"}

// CacheInfo describes one cache directory.
type CacheInfo struct {
	Dir     string `json:"dir"`
	Version string `json:"version"`
	Root    string `json:"root"`
	Entries int    `json:"entries"`
	Size    int64  `json:"size"`
	Updated string `json:"updated"`
	Age     string `json:"age"`
}

func CachePathAction(ctx context.Context, cmd *cli.Command) error {
	root, err := rootDir(cmd)
	if err != nil {
		return err
	}

	dir, err := cache.Locate(root, cacheOptions()...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer(cmd), dir)
	return err
}

func CacheInfoAction(ctx context.Context, cmd *cli.Command) error {
	root, err := rootDir(cmd)
	if err != nil {
		return err
	}

	dir, err := cache.Locate(root, cacheOptions()...)
	if err != nil {
		return err
	}

	usage, err := cacheutil.DirUsage(hostFS, dir)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", dir, err)
	}

	info := CacheInfo{
		Dir:     dir,
		Entries: usage.Entries,
		Size:    usage.Bytes,
	}
	if rec, ok := cache.ReadRecord(hostFS, dir); ok {
		info.Version = rec.Version
		info.Root = rec.Root
		// Blobs only; the record itself is not an entry.
		info.Entries = len(rec.Files)
		if !rec.Time.IsZero() {
			info.Updated = rec.Time.Format(time.RFC3339)
			info.Age = humanize.Time(rec.Time)
		}
	}
	log.WithField("dir", dir).Debugf("cache holds %s", humanize.Bytes(uint64(info.Size)))

	raw, err := output.Marshal([]CacheInfo{info})
	if err != nil {
		return err
	}
	return output.SliceDiceSpit(raw, infoColumns, cmd, writer(cmd))
}

func CacheClearAction(ctx context.Context, cmd *cli.Command) error {
	root, err := rootDir(cmd)
	if err != nil {
		return err
	}

	c, err := cache.New(root, version.Version, cacheOptions()...)
	if err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(writer(cmd), "removed %s\n", c.Dir())
	return err
}

func CacheCommandBuilder(cmd *cli.Command, m meta.Meta) *cli.Command {
	src := m.Config.Source
	return &cli.Command{
		Name:      "cache",
		Usage:     "inspect or clear the project cache",
		UsageText: version.Name + " cache <path|info|clear> [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Commands: []*cli.Command{
			{
				Name:   "path",
				Usage:  "print the cache directory for the project root",
				Flags:  []cli.Flag{NewRootFlag("cache", src)},
				Action: CachePathAction,
			},
			{
				Name:   "info",
				Usage:  "describe the cache for the project root",
				Flags:  append([]cli.Flag{NewRootFlag("cache", src)}, NewGlobalFlags("cache", src)...),
				Action: CacheInfoAction,
			},
			{
				Name:   "clear",
				Usage:  "delete the cache for the project root",
				Flags:  []cli.Flag{NewRootFlag("cache", src)},
				Action: CacheClearAction,
			},
		},
	}
}
