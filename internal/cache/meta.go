// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/tidwall/gjson"

	"github.com/staranto/imgmin/internal/fingerprint"
)

// MetaFile is the name of the metadata record inside a cache directory.
const MetaFile = "meta.json"

// Record describes which fingerprints are believed persisted in a cache
// directory.
type Record struct {
	Version string                    `json:"version"`
	Root    string                    `json:"root"`
	Files   []fingerprint.Fingerprint `json:"files"`
	Time    time.Time                 `json:"time"`
}

type fingerprintSet map[fingerprint.Fingerprint]struct{}

// ReadRecord parses the metadata record in dir without checking it against a
// version or root. ok is false for a missing or malformed record.
func ReadRecord(fsys billy.Filesystem, dir string) (Record, bool) {
	raw, err := readFile(fsys, filepath.Join(dir, MetaFile))
	if err != nil {
		return Record{}, false
	}
	return parseRecord(raw)
}

// parseRecord accepts a record only when version and root are strings and
// files is an array of well formed fingerprints. Anything else is rejected
// whole.
func parseRecord(raw []byte) (Record, bool) {
	if !gjson.ValidBytes(raw) {
		return Record{}, false
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Record{}, false
	}

	version := doc.Get("version")
	root := doc.Get("root")
	files := doc.Get("files")
	if version.Type != gjson.String || root.Type != gjson.String || !files.IsArray() {
		return Record{}, false
	}

	rec := Record{
		Version: version.Str,
		Root:    root.Str,
		Files:   []fingerprint.Fingerprint{},
	}
	for _, f := range files.Array() {
		if f.Type != gjson.String {
			return Record{}, false
		}
		fp, err := fingerprint.Parse(f.Str)
		if err != nil {
			return Record{}, false
		}
		rec.Files = append(rec.Files, fp)
	}

	if t := doc.Get("time"); t.Type == gjson.String {
		rec.Time, _ = time.Parse(time.RFC3339Nano, t.Str)
	}

	return rec, true
}

// loadMeta returns the known fingerprint set for dir. A missing, unreadable
// or mismatched record is a cold cache: dir is wiped (best effort) and the set
// is empty.
func loadMeta(fsys billy.Filesystem, dir, version, root string) fingerprintSet {
	rec, ok := ReadRecord(fsys, dir)
	if !ok || rec.Version != version || rec.Root != root {
		log.WithFields(log.Fields{"dir": dir, "parsed": ok}).Debug("cold cache")
		if err := util.RemoveAll(fsys, dir); err != nil {
			log.WithError(err).Debugf("failed to reset cache directory %s", dir)
		}
		return fingerprintSet{}
	}

	known := make(fingerprintSet, len(rec.Files))
	for _, fp := range rec.Files {
		known[fp] = struct{}{}
	}
	log.Debugf("loaded %d cache entries from %s", len(known), dir)
	return known
}

// saveMeta overwrites the record in dir with the union of known and pending.
func saveMeta(fsys billy.Filesystem, dir string, rec Record, known, pending fingerprintSet) error {
	union := make(fingerprintSet, len(known)+len(pending))
	for fp := range known {
		union[fp] = struct{}{}
	}
	for fp := range pending {
		union[fp] = struct{}{}
	}

	rec.Files = make([]fingerprint.Fingerprint, 0, len(union))
	for fp := range union {
		rec.Files = append(rec.Files, fp)
	}
	sort.Slice(rec.Files, func(i, j int) bool { return rec.Files[i] < rec.Files[j] })

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}

	if err := writeFileAtomic(fsys, filepath.Join(dir, MetaFile), data); err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}
	return nil
}

func readFile(fsys billy.Filesystem, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeFileAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old or the new content.
func writeFileAtomic(fsys billy.Filesystem, path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := fsys.TempFile(dir, ".tmp-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	return nil
}
