// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package naming

import (
	"fmt"
	"reflect"
	"strings"
)

// Scope is an immutable naming position. Every method returns a new Scope.
type Scope struct {
	prefix string
	trace  []PathSegment
}

// Root returns the scope for a model's top-level sequence.
func Root(base string) Scope {
	return Scope{prefix: base}
}

// Step returns the scope of the i-th (1-based) instruction: `{prefix}_{i}`.
func (s Scope) Step(i int) Scope {
	return Scope{
		prefix: fmt.Sprintf("%s_%d", s.prefix, i),
		trace:  s.with(NewPathSegmentWithIndex(stepSegment, i)),
	}
}

// Branch returns the scope of the k-th (1-based) branch of module `tag`
// expanded at this step: `{prefix}_{k}{tag}`.
func (s Scope) Branch(k int, tag string) Scope {
	return Scope{
		prefix: fmt.Sprintf("%s_%d%s", s.prefix, k, tag),
		trace:  s.with(NewPathSegmentWithIndex(tag, k)),
	}
}

// Layer returns the name of a layer created at this scope.
func (s Scope) Layer(suffix string) string {
	return s.prefix + suffix
}

// Concat returns the name of the concatenation that merges the branches of
// module `tag` expanded at this scope.
func (s Scope) Concat(tag string) string {
	return s.prefix + "Concat-" + tag
}

// Input returns the name of the input placeholder for a root scope.
func (s Scope) Input() string {
	return s.prefix + "_input"
}

// Prefix returns the raw name prefix.
func (s Scope) Prefix() string {
	return s.prefix
}

// Trace returns the canonical path of this scope, e.g. `step[8].m3[2].step[2]`.
func (s Scope) Trace() string {
	var sb strings.Builder
	for i, segment := range s.trace {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			sb.WriteString(fmt.Sprintf("[%d]", segment.Index))
		}
	}
	return sb.String()
}

// Segments returns a copy of the trace segments.
func (s Scope) Segments() []PathSegment {
	out := make([]PathSegment, len(s.trace))
	copy(out, s.trace)
	return out
}

// Equal reports whether both scopes name the same position.
func (s Scope) Equal(other Scope) bool {
	if s.prefix != other.prefix || len(s.trace) != len(other.trace) {
		return false
	}
	return len(s.trace) == 0 || reflect.DeepEqual(s.trace, other.trace)
}

// with copies the trace before appending so sibling scopes never share a
// backing array.
func (s Scope) with(seg PathSegment) []PathSegment {
	out := make([]PathSegment, len(s.trace), len(s.trace)+1)
	copy(out, s.trace)
	return append(out, seg)
}
