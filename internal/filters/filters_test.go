// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

// reportRows mirrors the rows `imgmin min` reports.
const reportRows = `[
	{"name": "img/a.png", "format": "png", "original": 4000, "saved": 3000, "cached": true},
	{"name": "img/b.svg", "format": "svg", "original": 1000, "saved": 100, "cached": false},
	{"name": "c.jpg", "format": "jpeg", "original": 3000, "saved": 0, "cached": false}
]`

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{name: "empty", spec: "", want: nil},
		{
			name: "equals",
			spec: "format=png",
			want: []Filter{{Key: "format", Operand: "=", Target: "png"}},
		},
		{
			name: "negated prefix",
			spec: "name!^img/",
			want: []Filter{{Key: "name", Operand: "^", Target: "img/", Negate: true}},
		},
		{
			name: "list",
			spec: "saved>1000,cached=true",
			want: []Filter{
				{Key: "saved", Operand: ">", Target: "1000"},
				{Key: "cached", Operand: "=", Target: "true"},
			},
		},
		{
			name: "regex keeps its operators",
			spec: "name/^img/.*\\.png$",
			want: []Filter{{Key: "name", Operand: "/", Target: "^img/.*\\.png$"}},
		},
		{
			name: "malformed entry skipped",
			spec: "format=png,saved,cached=false",
			want: []Filter{
				{Key: "format", Operand: "=", Target: "png"},
				{Key: "cached", Operand: "=", Target: "false"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "format~PNG|saved<10",
			delimiter: "|",
			want: []Filter{
				{Key: "format", Operand: "~", Target: "PNG"},
				{Key: "saved", Operand: "<", Target: "10"},
			},
		},
		{
			name: "empty target",
			spec: "name=",
			want: []Filter{{Key: "name", Operand: "=", Target: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("IMGMIN_FILTER_DELIM", tt.delimiter)
			}
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestFilterMatch(t *testing.T) {
	row := gjson.Parse(`{
		"name": "img/logo.png",
		"format": "png",
		"original": 2048,
		"saved": 512,
		"cached": true,
		"note": null,
		"tags": ["brand", "web"],
		"sizes": {"1x": 512, "2x": 1024}
	}`)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "equals", filter: Filter{Key: "format", Operand: "=", Target: "png"}, want: true},
		{name: "equals miss", filter: Filter{Key: "format", Operand: "=", Target: "svg"}, want: false},
		{name: "not equals", filter: Filter{Key: "format", Operand: "=", Target: "svg", Negate: true}, want: true},
		{name: "fold", filter: Filter{Key: "format", Operand: "~", Target: "PNG"}, want: true},
		{name: "prefix", filter: Filter{Key: "name", Operand: "^", Target: "img/"}, want: true},
		{name: "substring", filter: Filter{Key: "name", Operand: "@", Target: "logo"}, want: true},
		{name: "regex", filter: Filter{Key: "name", Operand: "/", Target: `\.png$`}, want: true},
		{name: "negated regex", filter: Filter{Key: "name", Operand: "/", Target: `\.png$`, Negate: true}, want: false},
		{name: "bad regex", filter: Filter{Key: "name", Operand: "/", Target: "[png"}, want: false},
		{name: "string ordering", filter: Filter{Key: "format", Operand: ">", Target: "jpeg"}, want: true},
		{name: "numeric greater", filter: Filter{Key: "original", Operand: ">", Target: "1024"}, want: true},
		{name: "numeric less", filter: Filter{Key: "saved", Operand: "<", Target: "100"}, want: false},
		{name: "numeric equals", filter: Filter{Key: "saved", Operand: "=", Target: " 512 "}, want: true},
		{name: "numeric bad target", filter: Filter{Key: "saved", Operand: "=", Target: "lots"}, want: false},
		{name: "numeric prefix unsupported", filter: Filter{Key: "saved", Operand: "^", Target: "5"}, want: false},
		{name: "bool as string", filter: Filter{Key: "cached", Operand: "=", Target: "true"}, want: true},
		{name: "null never matches", filter: Filter{Key: "note", Operand: "=", Target: "", Negate: true}, want: false},
		{name: "missing never matches", filter: Filter{Key: "absent", Operand: "=", Target: "x", Negate: true}, want: false},
		{name: "array contains", filter: Filter{Key: "tags", Operand: "@", Target: "web"}, want: true},
		{name: "array not contains", filter: Filter{Key: "tags", Operand: "@", Target: "print", Negate: true}, want: true},
		{name: "array equals", filter: Filter{Key: "tags", Operand: "=", Target: "brand"}, want: false},
		{name: "object has key", filter: Filter{Key: "sizes", Operand: "@", Target: "2x"}, want: true},
		{name: "object lacks key", filter: Filter{Key: "sizes", Operand: "@", Target: "3x"}, want: false},
		{name: "unknown operand", filter: Filter{Key: "format", Operand: "?", Target: "png"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(row))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	rows := gjson.Parse(reportRows)
	columns := []string{"name", "format", "saved", "cached"}

	tests := []struct {
		name      string
		spec      string
		wantNames []string
	}{
		{name: "no filters", spec: "", wantNames: []string{"img/a.png", "img/b.svg", "c.jpg"}},
		{name: "prefix", spec: "format^jp", wantNames: []string{"c.jpg"}},
		{name: "numeric", spec: "saved>50", wantNames: []string{"img/a.png", "img/b.svg"}},
		{name: "bool", spec: "cached=false", wantNames: []string{"img/b.svg", "c.jpg"}},
		{name: "combined", spec: "saved>50,cached=false", wantNames: []string{"img/b.svg"}},
		{name: "no matches", spec: "name=zzz", wantNames: nil},
		{name: "unknown key dropped", spec: "bogus=1", wantNames: []string{"img/a.png", "img/b.svg", "c.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(rows, columns, tt.spec)
			assert.Len(t, got, len(tt.wantNames))
			for i, expected := range tt.wantNames {
				assert.Equal(t, expected, got[i]["name"])
			}
		})
	}
}

func TestFilterDatasetFiltersOnHiddenFields(t *testing.T) {
	rows := gjson.Parse(reportRows)

	got := FilterDataset(rows, []string{"name", "saved"}, "format=png,original>1000")
	assert.Equal(t, []map[string]interface{}{{"name": "img/a.png", "saved": 3000.0}}, got)
}

func TestFilterDatasetProjectsColumns(t *testing.T) {
	rows := gjson.Parse(`[{"name": "a.png", "format": "png", "original": 10}]`)

	got := FilterDataset(rows, []string{"name", "format"}, "")
	assert.Equal(t, []map[string]interface{}{{"name": "a.png", "format": "png"}}, got)
}

func TestKnownFilters(t *testing.T) {
	rows := gjson.Parse(reportRows).Array()
	filters := []Filter{
		{Key: "format", Operand: "=", Target: "png"},
		{Key: "bogus", Operand: "=", Target: "x"},
	}

	assert.Equal(t, []Filter{{Key: "format", Operand: "=", Target: "png"}}, knownFilters(filters, rows))
	assert.Len(t, knownFilters([]Filter{{Key: "bogus", Operand: "="}}, nil), 1)
}
