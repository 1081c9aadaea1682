// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownModule is matched by every *UnknownModuleError.
	ErrUnknownModule = errors.New("unknown module")
	// ErrModuleCycle is matched by every *ModuleCycleError.
	ErrModuleCycle = errors.New("module cycle")
	// ErrInvalidParams is wrapped when a primitive's parameters cannot be decoded.
	ErrInvalidParams = errors.New("invalid instruction parameters")
)

// UnknownModuleError is returned for a tag that is neither a primitive nor
// a module defined in the table.
type UnknownModuleError struct {
	Tag  string
	Path string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown layer type %q at %s", e.Tag, e.Path)
}

func (e *UnknownModuleError) Is(target error) bool { return target == ErrUnknownModule }

// ModuleCycleError is returned when a module refers back to itself, directly
// or through other modules. Chain starts and ends with the same module.
type ModuleCycleError struct {
	Chain []string
}

func (e *ModuleCycleError) Error() string {
	return fmt.Sprintf("module cycle: %s", strings.Join(e.Chain, " -> "))
}

func (e *ModuleCycleError) Is(target error) bool { return target == ErrModuleCycle }
