// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/imgmin/internal/cache"
	"github.com/staranto/imgmin/internal/meta"
	"github.com/staranto/imgmin/internal/minify"
	"github.com/staranto/imgmin/internal/output"
	"github.com/staranto/imgmin/internal/version"
)

func MinCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", cmd.Args().Slice())

	root, err := rootDir(cmd)
	if err != nil {
		return err
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{m.StartingDir}
	}
	for i, p := range paths {
		paths[i] = absPath(cmd, p)
	}

	files, err := collectFiles(hostFS, paths)
	if err != nil {
		return err
	}

	c, err := cache.Open(cmd.Bool("cache"), root, version.Version, cacheOptions()...)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if d, ok := c.(*cache.Disk); ok {
		log.WithField("dir", d.Dir()).Debug("using cache")
	}

	onExt, err := minify.HandlerFor(cmd.String("on-error"))
	if err != nil {
		return err
	}

	results, err := minify.New(c,
		minify.WithJobs(cmd.Int("jobs")),
		minify.WithExtensionHandler(onExt),
	).Process(ctx, files)
	if err != nil {
		return err
	}

	if d, ok := c.(*cache.Disk); ok {
		s := d.Stats()
		log.WithFields(log.Fields{
			"hits":   s.Hits,
			"misses": s.Misses,
			"failed": s.ReadFailures,
		}).Debug("cache stats")
	}

	if cmd.Bool("write") {
		n, err := writeResults(hostFS, results)
		if err != nil {
			return err
		}
		log.Debugf("wrote %d files", n)
	}

	rows := make([]output.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, output.NewRow(relName(m, r.Name), r.Format, r.Original, len(r.Data), r.Cached))
	}

	raw, err := output.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return output.SliceDiceSpit(raw, output.ReportColumns, cmd, writer(cmd))
}

func MinCommandBuilder(cmd *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "min",
		Usage:     "minify png, jpeg and svg files",
		UsageText: version.Name + " min [options] [PATH...]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  append(NewMinFlags("min", m.Config.Source), NewGlobalFlags("min", m.Config.Source)...),
		Action: MinCommandAction,
	}
}
