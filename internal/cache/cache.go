// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/staranto/imgmin/internal/fingerprint"
)

// ErrPersist wraps every failure returned by Flush.
var ErrPersist = errors.New("failed to persist cache")

// Cache is a best-effort store of transformation results.
type Cache interface {
	// Get returns the result stored for fp, if any.
	Get(fp fingerprint.Fingerprint) ([]byte, bool)

	// Update records data as the latest result for fp. Nothing is written
	// until Flush.
	Update(fp fingerprint.Fingerprint, data []byte)

	// Flush persists every result seen by Get or Update during this run.
	Flush() error

	// Implementations must be safe for concurrent use.
}

// Stats counts cache activity for one run.
type Stats struct {
	Hits         int64
	Misses       int64
	ReadFailures int64
	Pending      int
}

// Disk is a Cache persisted under a directory resolved from the project root.
type Disk struct {
	fs      billy.Filesystem
	root    string
	version string
	dir     string
	now     func() time.Time

	// known is loaded once and only grows on a successful Flush.
	knownMu sync.RWMutex
	known   fingerprintSet

	mu      sync.RWMutex
	pending map[fingerprint.Fingerprint][]byte

	hits         atomic.Int64
	misses       atomic.Int64
	readFailures atomic.Int64
}

// New resolves the cache directory for root and loads its metadata. root must
// be absolute. version is the running tool version; a record written by any
// other version, or for any other root, is discarded.
func New(root, version string, opts ...Option) (*Disk, error) {
	o, err := buildOptions(root, opts)
	if err != nil {
		return nil, err
	}

	fsys := o.filesystem()
	dir := o.resolver(fsys).Resolve(root)

	c := &Disk{
		fs:      fsys,
		root:    root,
		version: version,
		dir:     dir,
		now:     o.now,
		known:   loadMeta(fsys, dir, version, root),
		pending: make(map[fingerprint.Fingerprint][]byte),
	}
	return c, nil
}

// Locate returns the cache directory New would use for root without reading
// or changing anything in it.
func Locate(root string, opts ...Option) (string, error) {
	o, err := buildOptions(root, opts)
	if err != nil {
		return "", err
	}
	return o.resolver(o.filesystem()).Resolve(root), nil
}

func buildOptions(root string, opts []Option) (options, error) {
	if root == "" {
		return options{}, errors.New("cache root is empty")
	}
	if !filepath.IsAbs(root) {
		return options{}, fmt.Errorf("cache root must be an absolute path: %q", root)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		return options{}, errors.New("cache name is empty")
	}
	return o, nil
}

// Open returns a Disk cache when enabled is true and a Noop otherwise.
func Open(enabled bool, root, version string, opts ...Option) (Cache, error) {
	if !enabled {
		return Noop{}, nil
	}
	return New(root, version, opts...)
}

// Dir returns the resolved cache directory.
func (c *Disk) Dir() string {
	return c.dir
}

// Root returns the project root the cache was opened for.
func (c *Disk) Root() string {
	return c.root
}

// Get consults the pending map first, then the blob for a known fingerprint.
// A blob that cannot be read is a miss for that entry alone. A blob read from
// disk is promoted into the pending map so it is re-persisted on Flush.
func (c *Disk) Get(fp fingerprint.Fingerprint) ([]byte, bool) {
	c.mu.RLock()
	data, ok := c.pending[fp]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return data, true
	}

	c.knownMu.RLock()
	_, ok = c.known[fp]
	c.knownMu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	data, err := readBlob(c.fs, c.dir, fp)
	if err != nil {
		log.WithError(err).Debugf("cache entry %s unreadable", fp)
		c.readFailures.Add(1)
		c.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	// A concurrent Update may have landed first; it wins.
	if newer, ok := c.pending[fp]; ok {
		data = newer
	} else {
		c.pending[fp] = data
	}
	c.mu.Unlock()

	c.hits.Add(1)
	log.Debugf("cache hit %s", fp)
	return data, true
}

// Update overwrites the pending result for fp.
func (c *Disk) Update(fp fingerprint.Fingerprint, data []byte) {
	c.mu.Lock()
	c.pending[fp] = data
	c.mu.Unlock()
}

// Flush creates the cache directory, writes every pending blob and then the
// metadata record. Pending results stay in memory whatever the outcome.
func (c *Disk) Flush() error {
	c.mu.RLock()
	entries := make(map[fingerprint.Fingerprint][]byte, len(c.pending))
	for fp, data := range c.pending {
		entries[fp] = data
	}
	c.mu.RUnlock()

	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("%w: failed to create cache directory: %w", ErrPersist, err)
	}

	written, blobErr := writeBlobs(c.fs, c.dir, entries)

	c.knownMu.Lock()
	defer c.knownMu.Unlock()

	rec := Record{
		Version: c.version,
		Root:    c.root,
		Time:    c.now().UTC(),
	}
	if err := saveMeta(c.fs, c.dir, rec, c.known, written); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(blobErr, err))
	}
	for fp := range written {
		c.known[fp] = struct{}{}
	}

	log.Debugf("flushed %d cache entries to %s", len(written), c.dir)

	if blobErr != nil {
		return fmt.Errorf("%w: %w", ErrPersist, blobErr)
	}
	return nil
}

// Clear removes the cache directory and forgets everything, pending results
// included.
func (c *Disk) Clear() error {
	c.knownMu.Lock()
	c.known = fingerprintSet{}
	c.knownMu.Unlock()

	c.mu.Lock()
	c.pending = make(map[fingerprint.Fingerprint][]byte)
	c.mu.Unlock()

	if err := util.RemoveAll(c.fs, c.dir); err != nil {
		return fmt.Errorf("failed to clear cache directory %s: %w", c.dir, err)
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (c *Disk) Stats() Stats {
	c.mu.RLock()
	pending := len(c.pending)
	c.mu.RUnlock()

	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		ReadFailures: c.readFailures.Load(),
		Pending:      pending,
	}
}
