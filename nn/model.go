// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import (
	"fmt"

	"github.com/google/uuid"
)

// Model binds input nodes to output nodes. Layers are collected from the
// outputs back to the inputs and kept in topological order.
type Model struct {
	id      uuid.UUID
	name    string
	inputs  []*Node
	outputs []*Node
	layers  []*Layer
	byName  map[string]*Layer
}

// SummaryRow describes one layer for reports.
type SummaryRow struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        LayerKind `json:"kind" yaml:"kind"`
	OutputShape []int     `json:"output_shape" yaml:"output_shape,flow"`
	Params      int       `json:"params" yaml:"params"`
	Inbound     []string  `json:"inbound,omitempty" yaml:"inbound,omitempty,flow"`
}

// NewModel walks the graph between inputs and outputs. Every output must be
// reachable from the declared inputs, every input layer met on the way must
// be declared, and layer names must be unique.
func NewModel(name string, inputs, outputs []*Node) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("%w: model %q needs at least one input and one output", ErrInvalidConfig, name)
	}

	declared := make(map[*Layer]bool, len(inputs))
	for i, in := range inputs {
		if in == nil {
			return nil, fmt.Errorf("%w: model %q: input %d is nil", ErrInvalidConfig, name, i)
		}
		declared[in.layer] = true
	}

	m := &Model{
		id:      uuid.New(),
		name:    name,
		inputs:  append([]*Node(nil), inputs...),
		outputs: append([]*Node(nil), outputs...),
		byName:  make(map[string]*Layer),
	}

	visited := make(map[*Layer]bool)
	// reaches records whether a layer depends on a declared input.
	reaches := make(map[*Layer]bool)
	var visit func(l *Layer) error
	visit = func(l *Layer) error {
		if visited[l] {
			return nil
		}
		visited[l] = true
		if l.kind == KindInput && len(l.inbound) == 0 && !declared[l] {
			return fmt.Errorf("%w: model %q: layer %q is an undeclared input", ErrInvalidConfig, name, l.name)
		}
		reached := declared[l]
		if !reached {
			for _, in := range l.inbound {
				if err := visit(in.layer); err != nil {
					return err
				}
				reached = reached || reaches[in.layer]
			}
		}
		reaches[l] = reached
		if prev, dup := m.byName[l.name]; dup && prev != l {
			return fmt.Errorf("%w: model %q: duplicate layer name %q", ErrInvalidConfig, name, l.name)
		}
		m.byName[l.name] = l
		m.layers = append(m.layers, l)
		return nil
	}

	for i, out := range outputs {
		if out == nil {
			return nil, fmt.Errorf("%w: model %q: output %d is nil", ErrInvalidConfig, name, i)
		}
		if err := visit(out.layer); err != nil {
			return nil, err
		}
		if !reaches[out.layer] {
			return nil, fmt.Errorf("%w: model %q: output %q is not reachable from the inputs", ErrInvalidConfig, name, out.Name())
		}
	}
	for _, in := range inputs {
		if !visited[in.layer] {
			return nil, fmt.Errorf("%w: model %q: input %q is not connected to any output", ErrInvalidConfig, name, in.Name())
		}
	}
	return m, nil
}

func (m *Model) ID() uuid.UUID { return m.id }
func (m *Model) Name() string  { return m.name }

func (m *Model) Inputs() []*Node  { return append([]*Node(nil), m.inputs...) }
func (m *Model) Outputs() []*Node { return append([]*Node(nil), m.outputs...) }

// Layers returns every layer in topological order, inputs first.
func (m *Model) Layers() []*Layer { return append([]*Layer(nil), m.layers...) }

func (m *Model) LayerCount() int { return len(m.layers) }

// Layer finds a layer by name.
func (m *Model) Layer(name string) (*Layer, bool) {
	l, ok := m.byName[name]
	return l, ok
}

// CountParams sums the parameters of every layer.
func (m *Model) CountParams() Params {
	var total Params
	for _, l := range m.layers {
		total = total.add(l.params)
	}
	return total
}

// Summary lists every layer in topological order.
func (m *Model) Summary() []SummaryRow {
	rows := make([]SummaryRow, 0, len(m.layers))
	for _, l := range m.layers {
		var inbound []string
		for _, in := range l.inbound {
			inbound = append(inbound, in.Name())
		}
		rows = append(rows, SummaryRow{
			Name:        l.name,
			Kind:        l.kind,
			OutputShape: l.output.shape.Dims(),
			Params:      l.params.Total(),
			Inbound:     inbound,
		})
	}
	return rows
}
