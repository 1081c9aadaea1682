// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/inception"
	"github.com/vk/topogrid/internal/config"
	"github.com/vk/topogrid/internal/hcl"
	"github.com/vk/topogrid/internal/testutil"
	"github.com/vk/topogrid/internal/topology"
	"github.com/vk/topogrid/internal/yamltable"
	"gopkg.in/yaml.v3"
)

// runApp validates cfg, runs one invocation and returns stdout and the logs.
func runApp(t *testing.T, cfg Config) (string, string, error) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	err = NewApp(out, logs, validated, nil).Run(context.Background())

	t.Cleanup(func() {
		if os.Getenv("TOPOGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return out.String(), logs.String(), err
}

func TestRun_BuiltInTableJSON(t *testing.T) {
	out, logs, err := runApp(t, Config{Output: OutputJSON})
	require.NoError(t, err)

	var got report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, inception.DefaultName, got.Name)
	assert.Equal(t, 347, got.Layers)
	assert.Len(t, got.Summary, 347)
	assert.Equal(t, []int{299, 299, 1}, got.Input)
	assert.Equal(t, []int{10, 10, 2048}, got.Output)
	assert.Equal(t, "Inception_V3_input", got.Summary[0].Name)
	assert.Contains(t, logs, "Model built.")
}

func TestRun_DenseEndYAML(t *testing.T) {
	out, _, err := runApp(t, Config{Output: OutputYAML, DenseEnd: true, Name: "net"})
	require.NoError(t, err)

	var got report
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "net", got.Name)
	assert.Equal(t, 351, got.Layers)
	assert.Equal(t, []int{1000}, got.Output)
}

func TestRun_CustomTableText(t *testing.T) {
	path := testutil.WriteFile(t, "small.hcl", testutil.SmallTableHCL)

	out, _, err := runApp(t, Config{TablePath: path, InputShape: "32,32,3", Name: "small"})
	require.NoError(t, err)

	assert.Contains(t, out, `Model: "small"`)
	assert.Contains(t, out, "small_input")
	assert.Contains(t, out, "small_3Concat-mix")
	assert.Contains(t, out, "(16, 16, 24)")
	assert.Contains(t, out, "Total layers: 11\n")
	assert.Contains(t, out, "Total params: 680\n")
	assert.Contains(t, out, "Trainable params: 632\n")
	assert.Contains(t, out, "Non-trainable params: 48\n")
}

func TestRun_MixedFormatDirectory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"model.hcl": `sequence "model" { layers = [["cba", 16, 3, 1, "same", "ReLU"], ["mix"]] }`,
		"modules/mix.yaml": `
modules:
  mix:
    - - [cba, 8, 1, 1, same, ReLU]
    - - [ap2, 3, 1, same]
`,
	})

	out, _, err := runApp(t, Config{TablePath: dir, InputShape: "32,32,3", Output: OutputJSON})
	require.NoError(t, err)

	var got report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []int{32, 32, 24}, got.Output)
}

func TestRun_Check(t *testing.T) {
	t.Run("built-in table", func(t *testing.T) {
		out, _, err := runApp(t, Config{Check: true})
		require.NoError(t, err)
		assert.Equal(t, "ok: 2 sequences, 6 modules\n", out)
	})

	t.Run("cyclic table", func(t *testing.T) {
		path := testutil.WriteFile(t, "cyclic.hcl", testutil.CyclicTableHCL)
		_, _, err := runApp(t, Config{TablePath: path, Check: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, topology.ErrModuleCycle)
	})
}

func TestRun_Export(t *testing.T) {
	testCases := []struct {
		format string
		parse  func(t *testing.T, src []byte) *grammar.Table
	}{
		{
			format: "hcl",
			parse: func(t *testing.T, src []byte) *grammar.Table {
				table, err := hcl.Parse(src, "export.hcl")
				require.NoError(t, err)
				return table
			},
		},
		{
			format: "yaml",
			parse: func(t *testing.T, src []byte) *grammar.Table {
				table, err := yamltable.Parse(src)
				require.NoError(t, err)
				return table
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			out, _, err := runApp(t, Config{Export: tc.format})
			require.NoError(t, err)

			got := tc.parse(t, []byte(out))
			assert.True(t, inception.DefaultTable().Equal(got))
		})
	}
}

func TestRun_ExportUnknownFormat(t *testing.T) {
	_, _, err := runApp(t, Config{Export: "toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table format "toml"`)
}

func TestRun_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantIs  error
		wantMsg string
	}{
		{
			name:   "unknown module",
			files:  map[string]string{"t.hcl": testutil.UnknownModuleTableHCL},
			wantIs: topology.ErrUnknownModule,
		},
		{
			name:   "no table files",
			files:  map[string]string{"readme.txt": "nothing here"},
			wantIs: config.ErrNoTableFiles,
		},
		{
			name: "duplicate across formats",
			files: map[string]string{
				"a.hcl":  testutil.SmallTableHCL,
				"b.yaml": testutil.SmallTableYAML,
			},
			wantMsg: `duplicate sequence "model"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, tc.files)
			out, _, err := runApp(t, Config{TablePath: dir, InputShape: "32,32,3"})
			require.Error(t, err)
			assert.Empty(t, out)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestRun_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.prom")

	_, _, err := runApp(t, Config{Output: OutputJSON, MetricsFile: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `topogrid_builds_total{status="success"} 1`)
	assert.Contains(t, text, "topogrid_build_layers 347")
	assert.Contains(t, text, `topogrid_module_expansions_total{module="m2"} 5`)
}

func TestRun_MetricsFileWrittenOnFailure(t *testing.T) {
	tablePath := testutil.WriteFile(t, "t.hcl", testutil.UnknownModuleTableHCL)
	metricsPath := filepath.Join(t.TempDir(), "build.prom")

	_, _, err := runApp(t, Config{TablePath: tablePath, InputShape: "32,32,3", MetricsFile: metricsPath})
	require.ErrorIs(t, err, topology.ErrUnknownModule)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `topogrid_builds_total{status="error"} 1`)
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		level, format string
		wantDebug     bool
		wantPrefix    string
	}{
		{level: "debug", format: "json", wantDebug: true, wantPrefix: "{"},
		{level: "info", format: "text", wantDebug: false, wantPrefix: "time="},
		{level: "bogus", format: "text", wantDebug: false, wantPrefix: "time="},
	}

	for _, tc := range testCases {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			buf := &testutil.SafeBuffer{}
			logger := newLogger(tc.level, tc.format, buf)
			logger.Debug("debug line")
			logger.Warn("warn line")

			out := buf.String()
			assert.True(t, len(out) > 0 && out[:len(tc.wantPrefix)] == tc.wantPrefix, out)
			assert.Equal(t, tc.wantDebug, bytes.Contains([]byte(out), []byte("debug line")))
			assert.Contains(t, out, "warn line")
		})
	}
}
