// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "1", want: true},
		{value: "true", want: true},
		{value: "0", want: false},
		{value: "false", want: false},
	}

	for _, tt := range tests {
		t.Run("IMGMIN_CACHE="+tt.value, func(t *testing.T) {
			t.Setenv("IMGMIN_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestTempDir(t *testing.T) {
	t.Setenv("IMGMIN_CACHE_DIR", "/var/cache/imgmin-ci")
	assert.Equal(t, "/var/cache/imgmin-ci", TempDir())

	t.Setenv("IMGMIN_CACHE_DIR", "")
	assert.Equal(t, os.TempDir(), TempDir())
}

func TestDirUsage(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/c/meta.json", []byte("{}"), 0o644))
	require.NoError(t, util.WriteFile(fsys, "/c/abc", []byte("12345"), 0o644))

	u, err := DirUsage(fsys, "/c")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Entries)
	assert.Equal(t, int64(7), u.Bytes)
}

func TestDirUsage_Missing(t *testing.T) {
	u, err := DirUsage(memfs.New(), "/nope")
	require.NoError(t, err)
	assert.Equal(t, Usage{}, u)
}
