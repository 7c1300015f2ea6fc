// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra.png", "saved": 3.0, "format": "png", "cached": true},
		{"name": "Alpha.svg", "saved": 1.0, "format": "svg", "cached": false},
		{"name": "beta.jpg", "saved": 1.0, "format": "jpeg", "cached": true},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{name: "ascending by name", spec: "name", wantOrder: []string{"Alpha.svg", "beta.jpg", "zebra.png"}},
		{name: "descending by name", spec: "-name", wantOrder: []string{"zebra.png", "beta.jpg", "Alpha.svg"}},
		{name: "case sensitive", spec: "!name", wantOrder: []string{"Alpha.svg", "beta.jpg", "zebra.png"}},
		{name: "case sensitive descending", spec: "-!name", wantOrder: []string{"zebra.png", "beta.jpg", "Alpha.svg"}},
		{name: "numeric descending is stable", spec: "-saved", wantOrder: []string{"zebra.png", "Alpha.svg", "beta.jpg"}},
		{name: "multiple fields", spec: "saved,-name", wantOrder: []string{"beta.jpg", "Alpha.svg", "zebra.png"}},
		{name: "bools false first", spec: "cached,name", wantOrder: []string{"Alpha.svg", "beta.jpg", "zebra.png"}},
		{name: "missing column keeps order", spec: "nope", wantOrder: []string{"zebra.png", "Alpha.svg", "beta.jpg"}},
		{name: "empty spec", spec: "", wantOrder: []string{"zebra.png", "Alpha.svg", "beta.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestParseSortSpec(t *testing.T) {
	keys := parseSortSpec(" -saved , !name,,-")
	assert.Equal(t, []sortKey{
		{name: "saved", descending: true},
		{name: "name", caseSensitive: true},
	}, keys)
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{
			name:  "string",
			value: "hello",
			want:  "hello",
		},
		{
			name:  "int",
			value: 42,
			want:  "42",
		},
		{
			name:  "float64",
			value: 42.5,
			want:  "42",
		},
		{
			name:  "float64 with decimal",
			value: 42.7,
			want:  "43",
		},
		{
			name:  "bool true",
			value: true,
			want:  "true",
		},
		{
			name:  "bool false is zero value",
			value: false,
			want:  "",
		},
		{
			name:  "nil default",
			value: nil,
			want:  "",
		},
		{
			name:     "nil custom",
			value:    nil,
			emptyVal: "-",
			want:     "-",
		},
		{
			name:  "slice",
			value: []string{"a", "b"},
			want:  `["a","b"]`,
		},
		{
			name:  "map",
			value: map[string]int{"x": 1},
			want:  `{"x":1}`,
		},
		{
			name:  "zero value int",
			value: 0,
			want:  "",
		},
		{
			name:     "zero value with custom empty",
			value:    0,
			emptyVal: "N/A",
			want:     "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRow(t *testing.T) {
	r := NewRow("a.png", "png", 2000, 500, true)
	assert.Equal(t, 1500, r.Saved)
	assert.InDelta(t, 75.0, r.Percent, 0.001)

	empty := NewRow("e.svg", "svg", 0, 0, false)
	assert.Zero(t, empty.Percent)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "2.0 kB", formatCell("original", 2000.0))
	assert.Equal(t, "0 B", formatCell("saved", 0.0))
	assert.Equal(t, "75.0%", formatCell("percent", 75.0))
	assert.Equal(t, "png", formatCell("format", "png"))
	assert.Equal(t, "-", formatCell("cached", false))
	assert.Equal(t, "true", formatCell("cached", true))
}

func testReport(t *testing.T) bytes.Buffer {
	t.Helper()
	raw, err := Marshal([]Row{
		NewRow("b.svg", "svg", 1000, 900, false),
		NewRow("a.png", "png", 4000, 1000, true),
		NewRow("c.jpg", "jpeg", 3000, 3000, false),
	})
	require.NoError(t, err)
	return raw
}

func TestSpitJSON(t *testing.T) {
	var w bytes.Buffer
	err := Spit(testReport(t), ReportColumns, Settings{Output: "json", Sort: "-saved"}, &w)
	require.NoError(t, err)

	doc := gjson.Parse(w.String())
	require.True(t, doc.IsArray())
	assert.Equal(t, "a.png", doc.Get("0.name").String())
	assert.Equal(t, "b.svg", doc.Get("1.name").String())
	assert.Equal(t, int64(3000), doc.Get("0.saved").Int())
	assert.True(t, doc.Get("0.cached").Bool())

	// Keys follow column order.
	assert.True(t, strings.HasPrefix(w.String(), `[{"name":"a.png","format":"png","original":4000`))
}

func TestSpitYAML(t *testing.T) {
	var w bytes.Buffer
	err := Spit(testReport(t), []string{"name", "saved"}, Settings{Output: "yaml", Filter: "format=png"}, &w)
	require.NoError(t, err)
	assert.Equal(t, "- name: a.png\n  saved: 3000\n", w.String())
}

func TestSpitRaw(t *testing.T) {
	raw := testReport(t)
	want := raw.String()

	var w bytes.Buffer
	require.NoError(t, Spit(raw, ReportColumns, Settings{Output: "raw", Filter: "format=png"}, &w))
	assert.Equal(t, want, w.String())
}

func TestSpitText(t *testing.T) {
	var w bytes.Buffer
	err := Spit(testReport(t), ReportColumns, Settings{Output: "text", Titles: true, Color: true, Sort: "name"}, &w)
	require.NoError(t, err)

	out := w.String()
	// A buffer is never a terminal, so no escape sequences.
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "compressed")
	assert.Contains(t, out, "4.0 kB")
	assert.Contains(t, out, "75.0%")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "a.png")
	assert.Contains(t, lines[3], "c.jpg")
}

func TestSpitTextNoRows(t *testing.T) {
	var w bytes.Buffer
	err := Spit(testReport(t), ReportColumns, Settings{Filter: "name=zzz"}, &w)
	require.NoError(t, err)
	assert.Empty(t, w.String())
}

func TestSpitJSONNoRows(t *testing.T) {
	var w bytes.Buffer
	require.NoError(t, Spit(testReport(t), ReportColumns, Settings{Output: "json", Filter: "name=zzz"}, &w))
	assert.Equal(t, "[]\n", w.String())
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotEmpty(t, header)
	assert.NotEmpty(t, even)
	assert.NotEmpty(t, odd)
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zebra.png", "saved": 3.0},
		{"name": "alpha.svg", "saved": 1.0},
		{"name": "beta.jpg", "saved": 2.0},
	}

	spec := "-saved,name"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, spec)
	}
}

func BenchmarkInterfaceToString(b *testing.B) {
	values := []interface{}{
		"string",
		42,
		42.5,
		true,
		nil,
		[]string{"a", "b"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			InterfaceToString(v)
		}
	}
}
