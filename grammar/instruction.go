// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package grammar

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Instruction is one `(tag, *params)` entry of a sequence.
type Instruction struct {
	Tag    string
	Params []cty.Value
}

// I builds an instruction from Go literals. It panics on a parameter type
// that ToValue does not support, which makes it suitable for tables written
// in code. Use NewInstruction for untrusted input.
func I(tag string, params ...any) Instruction {
	instr, err := NewInstruction(tag, params...)
	if err != nil {
		panic(err)
	}
	return instr
}

// NewInstruction builds an instruction, converting each parameter with ToValue.
func NewInstruction(tag string, params ...any) (Instruction, error) {
	if tag == "" {
		return Instruction{}, fmt.Errorf("instruction tag cannot be empty")
	}
	values := make([]cty.Value, 0, len(params))
	for i, p := range params {
		v, err := ToValue(p)
		if err != nil {
			return Instruction{}, fmt.Errorf("instruction %q param %d: %w", tag, i+1, err)
		}
		values = append(values, v)
	}
	return Instruction{Tag: tag, Params: values}, nil
}

// Kind classifies the instruction's tag.
func (in Instruction) Kind() Kind {
	return Classify(in.Tag)
}

// Clone returns a copy that shares no slice with the receiver.
func (in Instruction) Clone() Instruction {
	params := make([]cty.Value, len(in.Params))
	copy(params, in.Params)
	return Instruction{Tag: in.Tag, Params: params}
}

// Equal reports whether both instructions have the same tag and parameters.
func (in Instruction) Equal(other Instruction) bool {
	if in.Tag != other.Tag || len(in.Params) != len(other.Params) {
		return false
	}
	for i := range in.Params {
		if !in.Params[i].RawEquals(other.Params[i]) {
			return false
		}
	}
	return true
}

// String renders the instruction as `tag(p1, p2, ...)`.
func (in Instruction) String() string {
	parts := make([]string, len(in.Params))
	for i, p := range in.Params {
		parts[i] = FormatValue(p)
	}
	return fmt.Sprintf("%s(%s)", in.Tag, strings.Join(parts, ", "))
}

// Sequence is an ordered instruction list: a module branch or the model body.
type Sequence []Instruction

// Clone returns a deep copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, in := range s {
		out[i] = in.Clone()
	}
	return out
}

// Equal reports whether both sequences hold equal instructions in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Tags returns the tag of every instruction, in order.
func (s Sequence) Tags() []string {
	tags := make([]string, len(s))
	for i, in := range s {
		tags[i] = in.Tag
	}
	return tags
}
