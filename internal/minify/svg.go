// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package minify

import (
	"bytes"
	"fmt"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const svgMediaType = "image/svg+xml"

// svgSniffLen bounds how far into a file Match looks for the root element.
const svgSniffLen = 4096

var svgMinifier = func() *tdminify.M {
	m := tdminify.New()
	m.Add(svgMediaType, &svg.Minifier{})
	return m
}()

// SVG minifies SVG documents. The result does not depend on the file name.
type SVG struct{}

func (SVG) ID() string {
	return "svg"
}

func (SVG) Extensions() []string {
	return []string{".svg"}
}

func (SVG) KeyByName() bool {
	return false
}

func (SVG) Match(content []byte) bool {
	head := content
	if len(head) > svgSniffLen {
		head = head[:svgSniffLen]
	}
	return bytes.Contains(head, []byte("<svg"))
}

func (SVG) Encode(content []byte) ([]byte, error) {
	out, err := svgMinifier.Bytes(svgMediaType, content)
	if err != nil {
		return nil, fmt.Errorf("failed to minify svg: %w", err)
	}
	return out, nil
}
