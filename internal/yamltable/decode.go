// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package yamltable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions this package reads.
var Extensions = []string{".yaml", ".yml", ".json"}

const (
	sequencesKey = "sequences"
	modulesKey   = "modules"
)

// Loader reads YAML and JSON table files.
type Loader struct{}

// NewLoader creates a new YAML table loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every matching file under the given paths and merges them into
// one table. A name defined in two files is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*grammar.Table, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	table := grammar.NewTable()
	seen := make(map[string]struct{})
	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to find YAML files in %s: %w", path, err)
		}
		for _, file := range files {
			if _, ok := seen[file]; ok {
				continue
			}
			seen[file] = struct{}{}

			src, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			part, err := Parse(src)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := table.Merge(part); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			logger.Debug("Loaded YAML table file.", "file", file, "sequences", len(part.Sequences), "modules", len(part.Modules))
		}
	}
	return table, nil
}

// Parse decodes a single YAML or JSON document.
func Parse(src []byte) (*grammar.Table, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return grammar.NewTable(), nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "a table must be a mapping with %q and %q keys", sequencesKey, modulesKey)
	}

	table := grammar.NewTable()
	defined := make(map[string]int)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case sequencesKey:
			if err := eachEntry(value, defined, func(name string, n *yaml.Node) error {
				seq, err := decodeSequence(n)
				if err != nil {
					return fmt.Errorf("sequence %q: %w", name, err)
				}
				table.SetSequence(name, seq)
				return nil
			}); err != nil {
				return nil, err
			}
		case modulesKey:
			if err := eachEntry(value, defined, func(name string, n *yaml.Node) error {
				branches, err := decodeBranches(n)
				if err != nil {
					return fmt.Errorf("module %q: %w", name, err)
				}
				table.SetModule(name, branches...)
				return nil
			}); err != nil {
				return nil, err
			}
		default:
			return nil, nodeError(key, "unexpected key %q, want %q or %q", key.Value, sequencesKey, modulesKey)
		}
	}
	return table, nil
}

// eachEntry walks a name -> value mapping. defined holds the line of every
// name seen so far so duplicates are reported with both positions.
func eachEntry(n *yaml.Node, defined map[string]int, fn func(name string, value *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return nodeError(n, "expected a mapping of names")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if prev, dup := defined[key.Value]; dup {
			return nodeError(key, "name %q already defined on line %d", key.Value, prev)
		}
		defined[key.Value] = key.Line
		if err := fn(key.Value, value); err != nil {
			return err
		}
	}
	return nil
}

func decodeBranches(n *yaml.Node) ([]grammar.Sequence, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, nodeError(n, "a module must be a non-empty list of branches")
	}
	branches := make([]grammar.Sequence, 0, len(n.Content))
	for k, b := range n.Content {
		seq, err := decodeSequence(b)
		if err != nil {
			return nil, fmt.Errorf("branch %d: %w", k+1, err)
		}
		branches = append(branches, seq)
	}
	return branches, nil
}

func decodeSequence(n *yaml.Node) (grammar.Sequence, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "expected a list of instructions")
	}
	seq := make(grammar.Sequence, 0, len(n.Content))
	for _, item := range n.Content {
		instr, err := decodeInstruction(item)
		if err != nil {
			return nil, err
		}
		seq = append(seq, instr)
	}
	return seq, nil
}

func decodeInstruction(n *yaml.Node) (grammar.Instruction, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return grammar.Instruction{}, nodeError(n, "an instruction must be a non-empty list such as [cba, 32, 3, 2, same, ReLU]")
	}
	tag := n.Content[0]
	if tag.Kind != yaml.ScalarNode || tag.ShortTag() != "!!str" || tag.Value == "" {
		return grammar.Instruction{}, nodeError(tag, "the first element of an instruction must be a tag string")
	}
	params := make([]cty.Value, 0, len(n.Content)-1)
	for _, p := range n.Content[1:] {
		v, err := decodeValue(p)
		if err != nil {
			return grammar.Instruction{}, err
		}
		params = append(params, v)
	}
	return grammar.Instruction{Tag: tag.Value, Params: params}, nil
}

func decodeValue(n *yaml.Node) (cty.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return cty.NilVal, nodeError(n, "bad integer %q", n.Value)
			}
			return cty.NumberIntVal(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return cty.NilVal, nodeError(n, "bad number %q", n.Value)
			}
			return cty.NumberFloatVal(f), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return cty.NilVal, nodeError(n, "bad boolean %q", n.Value)
			}
			return cty.BoolVal(b), nil
		case "!!str":
			return cty.StringVal(n.Value), nil
		default:
			return cty.NilVal, nodeError(n, "unsupported parameter %q", n.Value)
		}
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeValue(c)
			if err != nil {
				return cty.NilVal, err
			}
			vals = append(vals, v)
		}
		return cty.TupleVal(vals), nil
	default:
		return cty.NilVal, nodeError(n, "unsupported parameter")
	}
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d, column %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}
