// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/topogrid/inception"
	"github.com/vk/topogrid/nn"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	assert.Equal(t, inception.DefaultName, cfg.Name)
	assert.Equal(t, OutputText, cfg.Output)
	assert.True(t, cfg.Shape().Equal(nn.NewShape(299, 299, 1)))
}

func TestNewConfig_ParsesInputShape(t *testing.T) {
	cfg, err := NewConfig(Config{InputShape: "224, 224, 3", Output: "JSON", Export: "HCL"})
	require.NoError(t, err)

	assert.Equal(t, []int{224, 224, 3}, cfg.Shape().Dims())
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, "hcl", cfg.Export)
}

func TestNewConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "bad output", cfg: Config{Output: "xml"}, wantErr: `invalid output "xml"`},
		{name: "dense end with table", cfg: Config{TablePath: "t.hcl", DenseEnd: true}, wantErr: "dense end"},
		{name: "check and export", cfg: Config{Check: true, Export: "hcl"}, wantErr: "cannot be combined"},
		{name: "bad shape", cfg: Config{InputShape: "a,b"}, wantErr: "invalid input shape"},
		{name: "wrong rank", cfg: Config{InputShape: "10,10"}, wantErr: "want height, width and channels"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewConfig_DenseEndErrorIsSentinel(t *testing.T) {
	_, err := NewConfig(Config{TablePath: "t.hcl", DenseEnd: true})
	assert.ErrorIs(t, err, inception.ErrDenseEndWithCustomTable)
}
