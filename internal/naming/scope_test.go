// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope_Names(t *testing.T) {
	root := Root("Inception_V3")
	step := root.Step(8)
	branch := step.Branch(1, "m1")
	inner := branch.Step(2)

	testCases := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "input", got: root.Input(), expected: "Inception_V3_input"},
		{name: "conv at step", got: step.Layer("C"), expected: "Inception_V3_8C"},
		{name: "concat at step", got: step.Concat("m1"), expected: "Inception_V3_8Concat-m1"},
		{name: "branch prefix", got: branch.Prefix(), expected: "Inception_V3_8_1m1"},
		{name: "nested layer", got: inner.Layer("B"), expected: "Inception_V3_8_1m1_2B"},
		{name: "trace", got: inner.Trace(), expected: "step[8].m1[1].step[2]"},
		{name: "root trace is empty", got: root.Trace(), expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestScope_SiblingsDoNotShareTrace(t *testing.T) {
	step := Root("net").Step(1)
	a := step.Branch(1, "m")
	b := step.Branch(2, "m")

	assert.Equal(t, "step[1].m[1]", a.Trace())
	assert.Equal(t, "step[1].m[2]", b.Trace())
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(Root("net").Step(1).Branch(1, "m")))
}

func TestPathSegment_HasIndex(t *testing.T) {
	assert.False(t, NewPathSegment("a").HasIndex())
	assert.True(t, NewPathSegmentWithIndex("a", 0).HasIndex())
}
