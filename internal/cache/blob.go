// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/staranto/imgmin/internal/fingerprint"
)

func blobPath(dir string, fp fingerprint.Fingerprint) string {
	return filepath.Join(dir, fp.String())
}

func readBlob(fsys billy.Filesystem, dir string, fp fingerprint.Fingerprint) ([]byte, error) {
	return readFile(fsys, blobPath(dir, fp))
}

func writeBlob(fsys billy.Filesystem, dir string, fp fingerprint.Fingerprint, data []byte) error {
	if err := writeFileAtomic(fsys, blobPath(dir, fp), data); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", fp, err)
	}
	return nil
}

// writeBlobs writes every entry and returns the fingerprints that made it to
// disk. A failed entry does not stop the others.
func writeBlobs(fsys billy.Filesystem, dir string, entries map[fingerprint.Fingerprint][]byte) (fingerprintSet, error) {
	written := make(fingerprintSet, len(entries))
	var errs []error
	for fp, data := range entries {
		if err := writeBlob(fsys, dir, fp, data); err != nil {
			errs = append(errs, err)
			continue
		}
		written[fp] = struct{}{}
	}
	return written, errors.Join(errs...)
}
