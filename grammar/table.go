// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package grammar

import (
	"errors"
	"fmt"
	"sort"
)

// ModelKey is the name of the top-level sequence every table must define.
const ModelKey = "model"

// ErrMissingModel is returned when a table has no `model` sequence.
var ErrMissingModel = errors.New("table has no \"model\" sequence")

// Module is a branching entry: every branch consumes the same input and the
// outputs are concatenated in declaration order.
type Module struct {
	Name     string
	Branches []Sequence
}

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	branches := make([]Sequence, len(m.Branches))
	for i, b := range m.Branches {
		branches[i] = b.Clone()
	}
	return &Module{Name: m.Name, Branches: branches}
}

// Equal reports whether both modules have the same name and branches.
func (m *Module) Equal(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Name != other.Name || len(m.Branches) != len(other.Branches) {
		return false
	}
	for i := range m.Branches {
		if !m.Branches[i].Equal(other.Branches[i]) {
			return false
		}
	}
	return true
}

// Table is the full mapping from names to sequences and modules.
type Table struct {
	Sequences map[string]Sequence
	Modules   map[string]*Module
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		Sequences: make(map[string]Sequence),
		Modules:   make(map[string]*Module),
	}
}

// SetSequence stores a plain sequence under name, replacing any previous one.
func (t *Table) SetSequence(name string, seq Sequence) *Table {
	if t.Sequences == nil {
		t.Sequences = make(map[string]Sequence)
	}
	t.Sequences[name] = seq
	return t
}

// SetModule stores a branching module under name, replacing any previous one.
func (t *Table) SetModule(name string, branches ...Sequence) *Table {
	if t.Modules == nil {
		t.Modules = make(map[string]*Module)
	}
	t.Modules[name] = &Module{Name: name, Branches: branches}
	return t
}

// Model returns the top-level sequence.
func (t *Table) Model() (Sequence, error) {
	if t == nil {
		return nil, ErrMissingModel
	}
	seq, ok := t.Sequences[ModelKey]
	if !ok {
		return nil, ErrMissingModel
	}
	return seq, nil
}

// Sequence returns the named plain sequence.
func (t *Table) Sequence(name string) (Sequence, bool) {
	if t == nil {
		return nil, false
	}
	seq, ok := t.Sequences[name]
	return seq, ok
}

// Lookup resolves a module reference.
func (t *Table) Lookup(tag string) (*Module, bool) {
	if t == nil {
		return nil, false
	}
	m, ok := t.Modules[tag]
	return m, ok
}

// ModuleNames returns all module names, sorted.
func (t *Table) ModuleNames() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, 0, len(t.Modules))
	for name := range t.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SequenceNames returns all sequence names, sorted.
func (t *Table) SequenceNames() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, 0, len(t.Sequences))
	for name := range t.Sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	if t == nil {
		return out
	}
	for name, seq := range t.Sequences {
		out.Sequences[name] = seq.Clone()
	}
	for name, m := range t.Modules {
		out.Modules[name] = m.Clone()
	}
	return out
}

// WithHead returns a copy of the table with head appended to its model
// sequence. The receiver is left untouched; applying it twice appends twice.
func (t *Table) WithHead(head Sequence) (*Table, error) {
	if _, err := t.Model(); err != nil {
		return nil, err
	}
	out := t.Clone()
	out.Sequences[ModelKey] = append(out.Sequences[ModelKey], head.Clone()...)
	return out, nil
}

// Merge copies every entry of other into the table. A name that is already
// defined is an error; tables split across files must not redefine entries.
// On error the table is left unchanged.
func (t *Table) Merge(other *Table) error {
	if t == nil {
		return errors.New("cannot merge into a nil table")
	}
	if err := t.checkMerge(other); err != nil {
		return err
	}
	for _, name := range other.SequenceNames() {
		t.SetSequence(name, other.Sequences[name].Clone())
	}
	if t.Modules == nil {
		t.Modules = make(map[string]*Module)
	}
	for _, name := range other.ModuleNames() {
		t.Modules[name] = other.Modules[name].Clone()
	}
	return nil
}

func (t *Table) checkMerge(other *Table) error {
	for _, name := range other.SequenceNames() {
		if _, exists := t.Sequences[name]; exists {
			return fmt.Errorf("duplicate sequence %q", name)
		}
		if _, exists := t.Modules[name]; exists {
			return fmt.Errorf("sequence %q conflicts with a module of the same name", name)
		}
	}
	for _, name := range other.ModuleNames() {
		if _, exists := t.Modules[name]; exists {
			return fmt.Errorf("duplicate module %q", name)
		}
		if _, exists := t.Sequences[name]; exists {
			return fmt.Errorf("module %q conflicts with a sequence of the same name", name)
		}
		if _, exists := other.Sequences[name]; exists {
			return fmt.Errorf("module %q conflicts with a sequence of the same name", name)
		}
	}
	return nil
}

// Equal reports whether both tables define the same entries.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Sequences) != len(other.Sequences) || len(t.Modules) != len(other.Modules) {
		return false
	}
	for name, seq := range t.Sequences {
		o, ok := other.Sequences[name]
		if !ok || !seq.Equal(o) {
			return false
		}
	}
	for name, m := range t.Modules {
		if !m.Equal(other.Modules[name]) {
			return false
		}
	}
	return true
}
