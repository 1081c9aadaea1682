// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package inception

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/topology"
	"github.com/vk/topogrid/nn"
)

// DefaultName is the model name used when WithName is not given.
const DefaultName = "Inception_V3"

// ErrDenseEndWithCustomTable is returned when the dense head is requested
// together with a caller supplied table.
var ErrDenseEndWithCustomTable = errors.New("dense end is only available with the built-in table")

// Observer receives build events, see WithObserver.
type Observer = topology.Observer

// DefaultInputShape is the input shape used when neither WithInputShape nor
// WithInputNode is given.
func DefaultInputShape() nn.Shape { return nn.NewShape(299, 299, 1) }

type options struct {
	shape    nn.Shape
	node     *nn.Node
	table    *grammar.Table
	denseEnd bool
	name     string
	observer Observer
}

// Option configures New.
type Option func(*options)

// WithInputShape sets the shape of the input placeholder.
func WithInputShape(height, width, channels int) Option {
	return func(o *options) { o.shape = nn.NewShape(height, width, channels) }
}

// WithInputNode builds on top of an existing node instead of a new
// placeholder. It takes precedence over WithInputShape.
func WithInputNode(node *nn.Node) Option {
	return func(o *options) { o.node = node }
}

// WithTable replaces the built-in table. A nil table keeps the default.
func WithTable(table *grammar.Table) Option {
	return func(o *options) { o.table = table }
}

// WithDenseEnd appends the classification head to the built-in table.
func WithDenseEnd(enabled bool) Option {
	return func(o *options) { o.denseEnd = enabled }
}

// WithName sets the model name, which also prefixes every layer name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithObserver reports build events to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New builds a model from the configured table.
func New(ctx context.Context, opts ...Option) (*nn.Model, error) {
	o := options{
		shape: DefaultInputShape(),
		name:  DefaultName,
	}
	for _, opt := range opts {
		opt(&o)
	}

	table, err := ResolveTable(o.table, o.denseEnd)
	if err != nil {
		return nil, err
	}

	var in topology.Input
	if o.node != nil {
		in = topology.FromNode(o.node)
	} else {
		in = topology.FromShape(o.shape)
	}

	var interpOpts []topology.Option
	if o.observer != nil {
		interpOpts = append(interpOpts, topology.WithObserver(o.observer))
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building model.", "name", o.name, "custom_table", o.table != nil, "dense_end", o.denseEnd)

	input, output, err := topology.New(interpOpts...).Build(ctx, in, table, o.name)
	if err != nil {
		return nil, fmt.Errorf("failed to build model %q: %w", o.name, err)
	}
	model, err := nn.NewModel(o.name, []*nn.Node{input}, []*nn.Node{output})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble model %q: %w", o.name, err)
	}
	logger.Debug("Model built.", "name", o.name, "id", model.ID().String(), "layers", model.LayerCount())
	return model, nil
}

// ResolveTable picks the table a build runs on. The default table is a
// fresh copy, so the dense head never leaks into later builds.
func ResolveTable(custom *grammar.Table, denseEnd bool) (*grammar.Table, error) {
	if custom != nil {
		if denseEnd {
			return nil, ErrDenseEndWithCustomTable
		}
		return custom, nil
	}
	table := DefaultTable()
	if !denseEnd {
		return table, nil
	}
	head, _ := table.Sequence(DenseHeadKey)
	return table.WithHead(head)
}
