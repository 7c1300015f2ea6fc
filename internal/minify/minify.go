// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package minify

import (
	"context"
	"fmt"
	"runtime"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/imgmin/internal/cache"
	"github.com/staranto/imgmin/internal/fingerprint"
)

// File is one input image.
type File struct {
	Name    string
	Content []byte
}

// Result is the outcome for one File. Data is the bytes to use in place of
// the original, which may be the original itself.
type Result struct {
	Name     string
	Format   string
	Original int
	Data     []byte
	Cached   bool
	Skipped  bool
}

// Saved is the number of bytes the result saves over the original.
func (r Result) Saved() int {
	return r.Original - len(r.Data)
}

type options struct {
	encoders []Encoder
	jobs     int
	onExt    ExtensionHandler
}

// Option configures a Minimizer.
type Option func(*options)

// WithEncoders replaces the default encoders.
func WithEncoders(encoders ...Encoder) Option {
	return func(o *options) {
		o.encoders = encoders
	}
}

// WithJobs bounds the number of files encoded at once. Values below one keep
// the default of one job per CPU.
func WithJobs(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.jobs = n
		}
	}
}

// WithExtensionHandler sets what happens when content does not match the
// file extension. The default warns.
func WithExtensionHandler(h ExtensionHandler) Option {
	return func(o *options) {
		if h != nil {
			o.onExt = h
		}
	}
}

// Minimizer runs batches of files against a cache.
type Minimizer struct {
	cache    cache.Cache
	encoders registry
	jobs     int
	onExt    ExtensionHandler
}

// New returns a Minimizer backed by c. A nil c disables caching.
func New(c cache.Cache, opts ...Option) *Minimizer {
	o := options{
		encoders: DefaultEncoders(),
		jobs:     runtime.NumCPU(),
		onExt:    warnExtension,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		c = cache.Noop{}
	}

	return &Minimizer{
		cache:    c,
		encoders: newRegistry(o.encoders),
		jobs:     o.jobs,
		onExt:    o.onExt,
	}
}

// Process minifies files and returns one Result per file, in input order. The
// cache is flushed once at the end of a successful batch; a flush failure is
// logged and does not fail the batch.
func (m *Minimizer) Process(ctx context.Context, files []File) ([]Result, error) {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.jobs)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := m.one(f)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := m.cache.Flush(); err != nil {
		log.WithError(err).Warn("cache flush failed")
	}

	return results, nil
}

func (m *Minimizer) one(f File) (Result, error) {
	r := Result{Name: f.Name, Original: len(f.Content), Data: f.Content}

	enc := m.encoders.lookup(f.Name)
	if enc == nil {
		r.Skipped = true
		return r, nil
	}
	r.Format = enc.ID()

	if !enc.Match(f.Content) {
		if err := m.onExt(f.Name); err != nil {
			return Result{}, err
		}
		r.Skipped = true
		return r, nil
	}

	fp := key(enc, f)
	if data, ok := m.cache.Get(fp); ok {
		log.WithField("file", f.Name).Debug("cache hit")
		r.Data = data
		r.Cached = true
		return r, nil
	}
	log.WithField("file", f.Name).Debug("cache miss")

	out, err := enc.Encode(f.Content)
	if err != nil {
		return Result{}, fmt.Errorf("failed to minify %s: %w", f.Name, err)
	}
	if len(out) < len(f.Content) {
		r.Data = out
	}

	m.cache.Update(fp, r.Data)
	return r, nil
}

// key picks the fingerprint variant the encoder needs.
func key(enc Encoder, f File) fingerprint.Fingerprint {
	if enc.KeyByName() {
		return fingerprint.Named(f.Name, f.Content)
	}
	return fingerprint.Content(f.Content)
}

// Minify runs a single batch through a new Minimizer.
func Minify(ctx context.Context, c cache.Cache, files []File, opts ...Option) ([]Result, error) {
	return New(c, opts...).Process(ctx, files)
}
