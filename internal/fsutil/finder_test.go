// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b.hcl", "a.HCL", "nested/c.hcl", "nested/ignored.yaml", "readme.md"} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	t.Run("directory is walked recursively and sorted", func(t *testing.T) {
		files, err := FindFilesByExtension(root, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.HCL"),
			filepath.Join(root, "b.hcl"),
			filepath.Join(root, "nested/c.hcl"),
		}, files)
	})

	t.Run("several extensions", func(t *testing.T) {
		files, err := FindFilesByExtension(root, ".yaml", ".md")
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("single matching file", func(t *testing.T) {
		path := filepath.Join(root, "b.hcl")
		files, err := FindFilesByExtension(path, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("single non matching file", func(t *testing.T) {
		files, err := FindFilesByExtension(filepath.Join(root, "readme.md"), ".hcl")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(root, "dne"), ".hcl")
		assert.Error(t, err)
	})

	t.Run("no extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
	})
}
