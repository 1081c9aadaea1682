// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	s := NewShape(10, 10, 2048)

	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, 2048, s.At(-1))
	assert.Equal(t, 10, s.At(0))
	assert.Equal(t, 204800, s.Numel())
	assert.Equal(t, "(10, 10, 2048)", s.String())
	assert.True(t, s.Equal(NewShape(10, 10, 2048)))
	assert.False(t, s.Equal(NewShape(10, 2048)))
	assert.Panics(t, func() { s.At(3) })
	assert.Panics(t, func() { s.At(-4) })

	dims := s.Dims()
	dims[0] = 1
	assert.Equal(t, 10, s.At(0), "Dims must return a copy")
}

func TestParseShape(t *testing.T) {
	testCases := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "299,299,1", want: []int{299, 299, 1}},
		{in: " (224, 224, 3) ", want: []int{224, 224, 3}},
		{in: "[1000]", want: []int{1000}},
		{in: "", wantErr: true},
		{in: "1,x,3", wantErr: true},
		{in: "0,3,3", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			s, err := ParseShape(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Dims())
		})
	}
}

func TestParsePadding(t *testing.T) {
	p, err := ParsePadding("SAME")
	require.NoError(t, err)
	assert.Equal(t, PaddingSame, p)

	p, err = ParsePadding("valid")
	require.NoError(t, err)
	assert.Equal(t, PaddingValid, p)

	_, err = ParsePadding("causal")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseActivation(t *testing.T) {
	for in, want := range map[string]string{"ReLU": "relu", "relu": "relu", "SiLU": "swish", "Softmax": "softmax"} {
		got, err := ParseActivation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseActivation("sparkle")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
