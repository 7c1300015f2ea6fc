// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package minify runs batches of images through format encoders, consulting a
// cache.Cache before encoding and flushing it once per batch.
//
// PNG and JPEG are re-encoded with the standard library codecs and keyed by
// file name and content. SVG is minified with tdewolff/minify and keyed by
// content only. Files with any other extension are passed through.
package minify
