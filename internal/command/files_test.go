// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/imgmin/internal/meta"
	"github.com/staranto/imgmin/internal/minify"
)

func TestCollectFiles(t *testing.T) {
	fsys := memfs.New()
	for name, body := range map[string]string{
		"/p/b.svg":                     "<svg/>",
		"/p/a.PNG":                     "png",
		"/p/notes.txt":                 "text",
		"/p/sub/c.jpg":                 "jpg",
		"/p/node_modules/pkg/logo.png": "dep",
		"/p/.git/x.png":                "vcs",
	} {
		require.NoError(t, util.WriteFile(fsys, name, []byte(body), 0o644))
	}

	files, err := collectFiles(fsys, []string{"/p", "/p/notes.txt", "/p/b.svg"})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"/p/a.PNG", "/p/b.svg", "/p/sub/c.jpg", "/p/notes.txt"}, names)
	assert.Equal(t, []byte("png"), files[0].Content)

	_, err = collectFiles(fsys, []string{"/missing"})
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/p/a.png", []byte("0123456789"), 0o600))
	require.NoError(t, util.WriteFile(fsys, "/p/b.png", []byte("0123"), 0o644))

	n, err := writeResults(fsys, []minify.Result{
		{Name: "/p/a.png", Original: 10, Data: []byte("01234")},
		{Name: "/p/b.png", Original: 4, Data: []byte("0123")},
		{Name: "/p/c.txt", Original: 3, Data: []byte("x"), Skipped: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := readAll(fsys, "/p/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("01234"), got)

	_, err = fsys.Stat("/p/c.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRelName(t *testing.T) {
	m := meta.Meta{StartingDir: "/work/site"}
	assert.Equal(t, "img/a.png", relName(m, "/work/site/img/a.png"))
	assert.Equal(t, "/elsewhere/a.png", relName(m, "/elsewhere/a.png"))
	assert.Equal(t, "/x/a.png", relName(meta.Meta{}, "/x/a.png"))
}
