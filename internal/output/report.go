// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
)

// ReportColumns are the columns of a minify report, in display order.
var ReportColumns = []string{"name", "format", "original", "compressed", "saved", "percent", "cached"}

// Row is one line of a minify report.
type Row struct {
	Name       string  `json:"name"`
	Format     string  `json:"format"`
	Original   int     `json:"original"`
	Compressed int     `json:"compressed"`
	Saved      int     `json:"saved"`
	Percent    float64 `json:"percent"`
	Cached     bool    `json:"cached"`
}

// NewRow computes the derived columns from the original and compressed sizes.
func NewRow(name, format string, original, compressed int, cached bool) Row {
	r := Row{
		Name:       name,
		Format:     format,
		Original:   original,
		Compressed: compressed,
		Saved:      original - compressed,
		Cached:     cached,
	}
	if original > 0 {
		r.Percent = float64(r.Saved) * 100 / float64(original)
	}
	return r
}

// Marshal encodes rows as the JSON document SliceDiceSpit consumes.
func Marshal(rows any) (bytes.Buffer, error) {
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	if err := enc.Encode(rows); err != nil {
		return bytes.Buffer{}, err
	}
	return raw, nil
}
