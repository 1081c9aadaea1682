// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package inception

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/topology"
	"github.com/vk/topogrid/nn"
)

func TestNew_DefaultModel(t *testing.T) {
	model, err := New(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultName, model.Name())
	assert.Equal(t, 347, model.LayerCount())
	require.Len(t, model.Inputs(), 1)
	require.Len(t, model.Outputs(), 1)
	assert.Equal(t, "Inception_V3_input", model.Inputs()[0].Name())
	assert.Equal(t, []int{299, 299, 1}, model.Inputs()[0].Shape().Dims())
	assert.Equal(t, []int{10, 10, 2048}, model.Outputs()[0].Shape().Dims())
	assert.Equal(t, "Inception_V3_19Concat-m3", model.Outputs()[0].Name())
}

func TestNew_ModuleOutputChannels(t *testing.T) {
	model, err := New(context.Background())
	require.NoError(t, err)

	testCases := []struct {
		layer string
		want  []int
	}{
		{"Inception_V3_7A", []int{38, 38, 288}},
		{"Inception_V3_8Concat-m1", []int{38, 38, 288}},
		{"Inception_V3_11Concat-m1r", []int{19, 19, 768}},
		{"Inception_V3_16Concat-m2", []int{19, 19, 768}},
		{"Inception_V3_17Concat-m2r", []int{10, 10, 1280}},
		{"Inception_V3_18_1m3_3Concat-m3a", []int{10, 10, 768}},
		{"Inception_V3_18Concat-m3", []int{10, 10, 2048}},
	}
	for _, tc := range testCases {
		t.Run(tc.layer, func(t *testing.T) {
			l, ok := model.Layer(tc.layer)
			require.True(t, ok)
			assert.Equal(t, tc.want, l.Output().Shape().Dims())
		})
	}
}

func TestNew_DenseEnd(t *testing.T) {
	model, err := New(context.Background(), WithDenseEnd(true))
	require.NoError(t, err)

	assert.Equal(t, 351, model.LayerCount())
	assert.Equal(t, []int{1000}, model.Outputs()[0].Shape().Dims())
	assert.Equal(t, "Inception_V3_23A", model.Outputs()[0].Name())

	// The head must not leak into later default builds.
	plain, err := New(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 347, plain.LayerCount())
}

func TestNew_CustomTable(t *testing.T) {
	table := grammar.NewTable().SetSequence(grammar.ModelKey, grammar.Sequence{
		grammar.I("ap2", 3, 2, "same"),
		grammar.I("cba", 64, 3, 1, "same", "ReLU"),
		grammar.I("mp2", 2, 2, "valid"),
	})

	model, err := New(context.Background(), WithInputShape(224, 224, 3), WithTable(table), WithName("custom"))
	require.NoError(t, err)

	assert.Len(t, model.Inputs(), 1)
	assert.Len(t, model.Outputs(), 1)
	assert.Equal(t, []int{56, 56, 64}, model.Outputs()[0].Shape().Dims())
	assert.Equal(t, "custom_input", model.Inputs()[0].Name())
}

func TestNew_DenseEndWithCustomTable(t *testing.T) {
	table := grammar.NewTable().SetSequence(grammar.ModelKey, grammar.Sequence{grammar.I("gap2")})

	model, err := New(context.Background(), WithTable(table), WithDenseEnd(true))

	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrDenseEndWithCustomTable)
}

func TestNew_UnknownLayerType(t *testing.T) {
	table := grammar.NewTable().SetSequence(grammar.ModelKey, grammar.Sequence{
		grammar.I("ap2", 3, 2, "same"),
		grammar.I("cba", 64, 3, 1, "same", "ReLU"),
		grammar.I("unknown", 2, 2, "valid"),
	})

	model, err := New(context.Background(), WithTable(table))

	assert.Nil(t, model)
	assert.ErrorIs(t, err, topology.ErrUnknownModule)
	var unknown *topology.UnknownModuleError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "unknown", unknown.Tag)
}

func TestNew_InputNode(t *testing.T) {
	x, err := nn.Input(nn.NewShape(75, 75, 3), "image")
	require.NoError(t, err)

	table := grammar.NewTable().SetSequence(grammar.ModelKey, grammar.Sequence{
		grammar.I("cba", 8, 3, 2, "same", "ReLU"),
	})
	model, err := New(context.Background(), WithInputNode(x), WithTable(table), WithName("embedded"))
	require.NoError(t, err)

	assert.Same(t, x, model.Inputs()[0])
	assert.Equal(t, 4, model.LayerCount())
	assert.Equal(t, []int{38, 38, 8}, model.Outputs()[0].Shape().Dims())
}

func TestNew_TwoBuildsAreIndependent(t *testing.T) {
	first, err := New(context.Background())
	require.NoError(t, err)
	second, err := New(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(first.Summary(), second.Summary()); diff != "" {
		t.Errorf("summaries differ (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first.ID(), second.ID())
	assert.NotSame(t, first.Outputs()[0], second.Outputs()[0])
}

func TestNew_ParamCount(t *testing.T) {
	model, err := New(context.Background(), WithInputShape(75, 75, 3))
	require.NoError(t, err)

	params := model.CountParams()
	var bnChannels int
	for _, l := range model.Layers() {
		if l.Kind() == nn.KindBatchNorm {
			bnChannels += l.Output().Shape().At(-1)
		}
	}
	assert.Equal(t, 2*bnChannels, params.NonTrainable)
	assert.Greater(t, params.Trainable, params.NonTrainable)
}

func TestDefaultTable_IsFreshCopy(t *testing.T) {
	a := DefaultTable()
	a.Sequences[grammar.ModelKey] = a.Sequences[grammar.ModelKey][:1]
	delete(a.Modules, "m1")

	b := DefaultTable()
	model, _ := b.Model()
	assert.Len(t, model, 19)
	_, ok := b.Lookup("m1")
	assert.True(t, ok)
	assert.Equal(t, []string{"m1", "m1r", "m2", "m2r", "m3", "m3a"}, b.ModuleNames())
	assert.NoError(t, topology.Check(context.Background(), b))
}

func TestDenseHead(t *testing.T) {
	head := DenseHead()
	assert.Equal(t, []string{"gap2", "f", "d", "a"}, head.Tags())

	seq, ok := DefaultTable().Sequence(DenseHeadKey)
	require.True(t, ok)
	assert.True(t, head.Equal(seq))
}
