// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"runtime"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/imgmin/internal/cacheutil"
	"github.com/staranto/imgmin/internal/minify"
)

// configSources looks key up under the command namespace, then globally.
func configSources(ns, key, source string) []cli.ValueSource {
	src := altsrc.StringSourcer(source)
	return []cli.ValueSource{
		yaml.YAML(ns+"."+key, src),
		yaml.YAML(key, src),
	}
}

// chain builds a value source chain from env vars followed by config keys.
func chain(ns, key, source string, envs ...string) cli.ValueSourceChain {
	var sources []cli.ValueSource
	for _, env := range envs {
		sources = append(sources, cli.EnvVar(env))
	}
	sources = append(sources, configSources(ns, key, source)...)
	return cli.NewValueSourceChain(sources...)
}

// NewGlobalFlags returns the output flags shared by every reporting command.
// ns is the command name used as the config namespace and source is the
// config file.
func NewGlobalFlags(ns, source string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: chain(ns, "color", source),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Sources: chain(ns, "output", source),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(yaml.YAML(ns+".sort", altsrc.StringSourcer(source))),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: chain(ns, "titles", source),
			Value:   false,
		},
	}
}

// NewRootFlag is the project root the cache is keyed on.
func NewRootFlag(ns, source string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "project root used to locate the cache (default: working directory)",
		Sources: chain(ns, "root", source, "IMGMIN_ROOT"),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	}
}

// NewMinFlags returns the flags specific to the min command.
func NewMinFlags(ns, source string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "cache",
			Usage:   "reuse and record results in the project cache",
			Sources: chain(ns, "cache", source),
			Value:   cacheutil.Enabled(),
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "number of files to encode at once",
			Sources: chain(ns, "jobs", source, "IMGMIN_JOBS"),
			Value:   runtime.NumCPU(),
			Validator: func(value int) error {
				return FlagValidators(value, PositiveValidator)
			},
		},
		&cli.StringFlag{
			Name:    "on-error",
			Usage:   "what to do when content does not match the extension (warn, error, ignore)",
			Sources: chain(ns, "on-error", source),
			Value:   minify.OnErrorWarn,
			Validator: func(value string) error {
				return FlagValidators(value, OnErrorValidator)
			},
		},
		&cli.BoolFlag{
			Name:        "write",
			Aliases:     []string{"w"},
			Usage:       "replace files in place when the result is smaller",
			HideDefault: true,
		},
		NewRootFlag(ns, source),
	}
}
