// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package minify

import (
	"path/filepath"
	"strings"
)

// Encoder compresses one image format.
type Encoder interface {
	// ID names the format in reports.
	ID() string
	// Extensions lists the lower-case file extensions, with the dot, that the
	// encoder claims.
	Extensions() []string
	// Match reports whether content looks like the encoder's format.
	Match(content []byte) bool
	// Encode returns the compressed form of content.
	Encode(content []byte) ([]byte, error)
	// KeyByName reports whether cache keys must include the file name.
	KeyByName() bool
}

// DefaultEncoders returns the PNG, JPEG and SVG encoders.
func DefaultEncoders() []Encoder {
	return []Encoder{PNG{}, JPEG{Quality: DefaultJPEGQuality}, SVG{}}
}

// registry maps an extension to its encoder. Later encoders win.
type registry map[string]Encoder

func newRegistry(encoders []Encoder) registry {
	r := make(registry)
	for _, enc := range encoders {
		for _, ext := range enc.Extensions() {
			r[strings.ToLower(ext)] = enc
		}
	}
	return r
}

// lookup returns the encoder for name's extension, or nil.
func (r registry) lookup(name string) Encoder {
	return r[strings.ToLower(filepath.Ext(name))]
}

// Supported reports whether one of the default encoders claims name.
func Supported(name string) bool {
	return defaultRegistry.lookup(name) != nil
}

var defaultRegistry = newRegistry(DefaultEncoders())
