// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestI_ConvertsLiterals(t *testing.T) {
	in := I("cba", 384, [2]int{1, 3}, 1, "same", "ReLU")

	require.Len(t, in.Params, 5)
	assert.Equal(t, "cba", in.Tag)
	assert.Equal(t, KindConvBNAct, in.Kind())
	assert.True(t, in.Params[0].RawEquals(cty.NumberIntVal(384)))
	assert.True(t, in.Params[1].Type().IsTupleType())
	assert.True(t, in.Params[3].RawEquals(cty.StringVal("same")))
}

func TestI_PanicsOnUnsupportedParam(t *testing.T) {
	assert.Panics(t, func() { I("d", struct{}{}) })
}

func TestNewInstruction_Errors(t *testing.T) {
	_, err := NewInstruction("")
	assert.Error(t, err)

	_, err = NewInstruction("d", map[string]int{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "param 1")
}

func TestInstruction_String(t *testing.T) {
	assert.Equal(t, `cba(384, (1, 3), 1, "same", "ReLU")`, I("cba", 384, []int{1, 3}, 1, "same", "ReLU").String())
	assert.Equal(t, "gap2()", I("gap2").String())
	assert.Equal(t, "d(0.5)", I("d", 0.5).String())
}

func TestInstruction_CloneIsIndependent(t *testing.T) {
	orig := I("d", 1000)
	clone := orig.Clone()
	clone.Params[0] = cty.NumberIntVal(10)

	assert.True(t, orig.Params[0].RawEquals(cty.NumberIntVal(1000)))
	assert.False(t, orig.Equal(clone))
}

func TestSequence_Equal(t *testing.T) {
	a := Sequence{I("gap2"), I("f"), I("d", 1000)}
	b := Sequence{I("gap2"), I("f"), I("d", 1000)}
	c := Sequence{I("gap2"), I("f"), I("d", 10)}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a[:2]))
	assert.Equal(t, []string{"gap2", "f", "d"}, a.Tags())
}
