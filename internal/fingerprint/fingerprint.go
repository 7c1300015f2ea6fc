// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint derives the content-addressed keys used by the cache.
//
// Two variants exist and must not be mixed for the same kind of input:
// Content keys on the bytes alone, Named keys on the name and the bytes.
package fingerprint

import (
	_ "crypto/sha256" // registers the hash behind digest.Canonical
	"encoding/binary"
	"fmt"

	"github.com/opencontainers/go-digest"
)

// Fingerprint is the lowercase hex SHA-256 of an input.
type Fingerprint string

// Each variant hashes a leading tag byte so a Content key can never equal a
// Named key.
const (
	tagContent byte = 0x00
	tagNamed   byte = 0x01
)

// Content returns the fingerprint of content alone.
func Content(content []byte) Fingerprint {
	d := digest.Canonical.Digester()
	h := d.Hash()
	_, _ = h.Write([]byte{tagContent})
	_, _ = h.Write(content)
	return Fingerprint(d.Digest().Encoded())
}

// Named returns the fingerprint of content under name. The name is length
// prefixed so that distinct (name, content) pairs never hash the same input.
func Named(name string, content []byte) Fingerprint {
	d := digest.Canonical.Digester()
	h := d.Hash()
	_, _ = h.Write([]byte{tagNamed})

	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(name)))
	_, _ = h.Write(size[:])
	_, _ = h.Write([]byte(name))
	_, _ = h.Write(content)

	return Fingerprint(d.Digest().Encoded())
}

// Parse validates s as a stored fingerprint.
func Parse(s string) (Fingerprint, error) {
	if err := digest.Canonical.Validate(s); err != nil {
		return "", fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	return Fingerprint(s), nil
}

func (f Fingerprint) String() string {
	return string(f)
}
