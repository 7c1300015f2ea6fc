// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package minify

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
)

// DefaultJPEGQuality matches the usual mozjpeg default.
const DefaultJPEGQuality = 75

var (
	pngSignature  = []byte("\x89PNG\r\n\x1a\n")
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
)

// PNG re-encodes PNG images at best compression.
type PNG struct{}

func (PNG) ID() string {
	return "png"
}

func (PNG) Extensions() []string {
	return []string{".png"}
}

func (PNG) KeyByName() bool {
	return true
}

func (PNG) Match(content []byte) bool {
	return bytes.HasPrefix(content, pngSignature)
}

func (PNG) Encode(content []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// JPEG re-encodes JPEG images at Quality.
type JPEG struct {
	Quality int
}

func (JPEG) ID() string {
	return "jpeg"
}

func (JPEG) Extensions() []string {
	return []string{".jpg", ".jpeg"}
}

func (JPEG) KeyByName() bool {
	return true
}

func (JPEG) Match(content []byte) bool {
	return bytes.HasPrefix(content, jpegSignature)
}

func (j JPEG) Encode(content []byte) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode jpeg: %w", err)
	}

	quality := j.Quality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
