// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import "errors"

var (
	// ErrInvalidConfig is wrapped by every argument validation failure.
	ErrInvalidConfig = errors.New("invalid layer configuration")
	// ErrShapeMismatch is wrapped when an input shape cannot feed a layer.
	ErrShapeMismatch = errors.New("shape mismatch")
)
