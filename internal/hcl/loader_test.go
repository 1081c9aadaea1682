// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/inception"
)

const bundledTable = "../../tables/inception_v3.hcl"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BundledTableMatchesDefault(t *testing.T) {
	table, err := NewLoader().Load(context.Background(), bundledTable)
	require.NoError(t, err)

	assert.True(t, inception.DefaultTable().Equal(table))
}

func TestParse(t *testing.T) {
	src := `
sequence "model" {
  layers = [
    ["cba", 32, 3, 2, "same", "ReLU"],
    ["m3a"],
  ]
}

module "m3a" {
  branch {
    layers = [["cba", 384, [1, 3], 1, "same", "ReLU"]]
  }
  branch {
    layers = [["cba", 384, [3, 1], 1, "same", "ReLU"]]
  }
}
`
	table, err := Parse([]byte(src), "test.hcl")
	require.NoError(t, err)

	want := grammar.NewTable()
	want.SetSequence(grammar.ModelKey, grammar.Sequence{
		grammar.I("cba", 32, 3, 2, "same", "ReLU"),
		grammar.I("m3a"),
	})
	want.SetModule("m3a",
		grammar.Sequence{grammar.I("cba", 384, [2]int{1, 3}, 1, "same", "ReLU")},
		grammar.Sequence{grammar.I("cba", 384, [2]int{3, 1}, 1, "same", "ReLU")},
	)
	assert.True(t, want.Equal(table))
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		summary string
	}{
		{
			name:    "syntax error",
			src:     `sequence "model" { layers = [ }`,
			summary: "",
		},
		{
			name:    "unknown block",
			src:     `grid "x" {}`,
			summary: "Unsupported block type",
		},
		{
			name:    "instruction is not a list",
			src:     `sequence "model" { layers = ["cba"] }`,
			summary: "Invalid instruction",
		},
		{
			name:    "empty instruction",
			src:     `sequence "model" { layers = [[]] }`,
			summary: "Invalid instruction",
		},
		{
			name:    "numeric tag",
			src:     `sequence "model" { layers = [[1, 2]] }`,
			summary: "Invalid instruction",
		},
		{
			name:    "module without branches",
			src:     `module "m1" {}`,
			summary: "Module without branches",
		},
		{
			name: "duplicate names",
			src: `
sequence "model" { layers = [] }
module "model" {
  branch { layers = [] }
}`,
			summary: `Duplicate "module" block`,
		},
		{
			name:    "missing layers",
			src:     `sequence "model" {}`,
			summary: "Missing required argument",
		},
		{
			name: "missing branch layers",
			src: `
module "m1" {
  branch {}
}`,
			summary: "Missing required argument",
		},
		{
			name:    "null layers",
			src:     `sequence "model" { layers = null }`,
			summary: "Invalid layers value",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "bad.hcl")
			require.Error(t, err)

			var diags hcl.Diagnostics
			require.ErrorAs(t, err, &diags)
			require.True(t, diags.HasErrors())
			if tc.summary != "" {
				assert.Equal(t, tc.summary, diags[0].Summary)
			}
			assert.Equal(t, "bad.hcl", diags[0].Subject.Filename)
		})
	}
}

func TestLoad_DirectoryMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "model.hcl", `sequence "model" { layers = [["m1"]] }`)
	writeFile(t, dir, "modules/m1.hcl", `
module "m1" {
  branch { layers = [["cba", 8, 1, 1, "same", "ReLU"]] }
  branch { layers = [["ap2", 3, 1, "same"]] }
}`)
	writeFile(t, dir, "notes.txt", `not a table`)

	table, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	m, ok := table.Lookup("m1")
	require.True(t, ok)
	assert.Len(t, m.Branches, 2)
	_, err = table.Model()
	assert.NoError(t, err)
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	module := `
module "m1" {
  branch { layers = [] }
}`
	first := writeFile(t, dir, "a.hcl", module)
	writeFile(t, dir, "b.hcl", module)

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)

	var diags hcl.Diagnostics
	require.ErrorAs(t, err, &diags)
	require.Len(t, diags, 1)
	assert.Equal(t, filepath.Join(dir, "b.hcl"), diags[0].Subject.Filename)
	assert.Contains(t, diags[0].Detail, first)
}

func TestLoad_SameFileTwice(t *testing.T) {
	table, err := NewLoader().Load(context.Background(), bundledTable, bundledTable)
	require.NoError(t, err)
	assert.Len(t, table.Modules, 6)
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
