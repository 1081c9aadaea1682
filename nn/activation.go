// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import (
	"fmt"
	"strings"
)

var activations = map[string]string{
	"relu":         "relu",
	"relu6":        "relu6",
	"leaky_relu":   "leaky_relu",
	"leakyrelu":    "leaky_relu",
	"elu":          "elu",
	"selu":         "selu",
	"gelu":         "gelu",
	"sigmoid":      "sigmoid",
	"hard_sigmoid": "hard_sigmoid",
	"tanh":         "tanh",
	"softmax":      "softmax",
	"softplus":     "softplus",
	"softsign":     "softsign",
	"swish":        "swish",
	"silu":         "swish",
	"mish":         "mish",
	"exponential":  "exponential",
	"linear":       "linear",
}

// ParseActivation normalizes an activation name. Matching ignores case, so
// "ReLU" and "relu" are the same function.
func ParseActivation(name string) (string, error) {
	if canonical, ok := activations[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, name)
}
