// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package yamltable

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/vk/topogrid/grammar"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Encode renders a table as YAML with one flow-style instruction per line.
func Encode(table *grammar.Table) ([]byte, error) {
	if _, err := table.Model(); err != nil {
		return nil, err
	}

	sequences := mapping()
	names := []string{grammar.ModelKey}
	for _, name := range table.SequenceNames() {
		if name != grammar.ModelKey {
			names = append(names, name)
		}
	}
	for _, name := range names {
		seq, _ := table.Sequence(name)
		n, err := sequenceNode(seq)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", name, err)
		}
		addEntry(sequences, name, n)
	}

	modules := mapping()
	for _, name := range table.ModuleNames() {
		m, _ := table.Lookup(name)
		branches := &yaml.Node{Kind: yaml.SequenceNode}
		for _, b := range m.Branches {
			n, err := sequenceNode(b)
			if err != nil {
				return nil, fmt.Errorf("module %q: %w", name, err)
			}
			branches.Content = append(branches.Content, n)
		}
		addEntry(modules, name, branches)
	}

	root := mapping()
	addEntry(root, sequencesKey, sequences)
	if len(modules.Content) > 0 {
		addEntry(root, modulesKey, modules)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func addEntry(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func sequenceNode(seq grammar.Sequence) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	if len(seq) == 0 {
		n.Style = yaml.FlowStyle
	}
	for _, instr := range seq {
		in := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		in.Content = append(in.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: instr.Tag})
		for _, p := range instr.Params {
			pn, err := valueNode(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", instr, err)
			}
			in.Content = append(in.Content, pn)
		}
		n.Content = append(n.Content, in)
	}
	return n, nil
}

func valueNode(v cty.Value) (*yaml.Node, error) {
	if v == cty.NilVal || v.IsNull() || !v.IsWhollyKnown() {
		return nil, fmt.Errorf("parameter must be a known, non-null value")
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.AsString()}, nil
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: i.String()}, nil
		}
		f, _ := bf.Float64()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: big.NewFloat(f).Text('g', -1)}, nil
	case ty.Equals(cty.Bool):
		value := "false"
		if v.True() {
			value = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}, nil
	case ty.IsTupleType() || ty.IsListType():
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			en, err := valueNode(ev)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", ty.FriendlyName())
	}
}
