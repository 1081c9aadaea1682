// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is a symbolic tensor shape without the batch dimension.
type Shape struct {
	dims []int
}

// NewShape copies dims into a Shape.
func NewShape(dims ...int) Shape {
	d := make([]int, len(dims))
	copy(d, dims)
	return Shape{dims: d}
}

// ParseShape reads a comma separated shape such as "299,299,1".
func ParseShape(s string) (Shape, error) {
	s = strings.Trim(strings.TrimSpace(s), "()[]")
	if s == "" {
		return Shape{}, fmt.Errorf("%w: empty shape", ErrInvalidConfig)
	}
	parts := strings.Split(s, ",")
	dims := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Shape{}, fmt.Errorf("%w: bad dimension %q in shape %q", ErrInvalidConfig, p, s)
		}
		dims = append(dims, n)
	}
	shape := Shape{dims: dims}
	if err := shape.validate(); err != nil {
		return Shape{}, err
	}
	return shape, nil
}

// Dims returns a copy of the dimensions.
func (s Shape) Dims() []int {
	d := make([]int, len(s.dims))
	copy(d, s.dims)
	return d
}

func (s Shape) Rank() int { return len(s.dims) }

// At returns dimension i. Negative indexes count from the end.
func (s Shape) At(i int) int {
	if i < 0 {
		i += len(s.dims)
	}
	if i < 0 || i >= len(s.dims) {
		panic(fmt.Sprintf("nn: dimension index %d out of range for rank %d", i, len(s.dims)))
	}
	return s.dims[i]
}

// Numel is the number of elements in one sample.
func (s Shape) Numel() int {
	if len(s.dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range s.dims {
		n *= d
	}
	return n
}

func (s Shape) Equal(other Shape) bool {
	if len(s.dims) != len(other.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	parts := make([]string, len(s.dims))
	for i, d := range s.dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Shape) validate() error {
	if len(s.dims) == 0 {
		return fmt.Errorf("%w: shape must have at least one dimension", ErrInvalidConfig)
	}
	for i, d := range s.dims {
		if d <= 0 {
			return fmt.Errorf("%w: dimension %d of %s must be positive", ErrInvalidConfig, i, s)
		}
	}
	return nil
}

func (s Shape) withLast(n int) Shape {
	d := s.Dims()
	d[len(d)-1] = n
	return Shape{dims: d}
}
