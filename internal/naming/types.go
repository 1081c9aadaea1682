// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package naming

// PathSegment represents a single component of a trace, e.g. `m1[2]`.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

// stepSegment is the segment name used for instruction positions.
const stepSegment = "step"
