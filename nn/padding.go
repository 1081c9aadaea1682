// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import (
	"fmt"
	"strings"
)

// Padding selects how spatial borders are handled.
type Padding string

const (
	PaddingSame  Padding = "same"
	PaddingValid Padding = "valid"
)

// ParsePadding accepts "same" or "valid" in any letter case.
func ParsePadding(s string) (Padding, error) {
	switch p := Padding(strings.ToLower(strings.TrimSpace(s))); p {
	case PaddingSame, PaddingValid:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown padding %q (want \"same\" or \"valid\")", ErrInvalidConfig, s)
	}
}

// convOutput is the spatial size after a strided window.
func convOutput(in, kernel, stride int, p Padding) int {
	if p == PaddingSame {
		return (in + stride - 1) / stride
	}
	if in < kernel {
		return 0
	}
	return (in-kernel)/stride + 1
}

// transposedOutput is the spatial size after a transposed convolution.
func transposedOutput(in, kernel, stride int, p Padding) int {
	if p == PaddingSame {
		return in * stride
	}
	return (in-1)*stride + max(kernel, stride)
}
