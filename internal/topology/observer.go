// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"time"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/nn"
)

// Observer receives build events. Implementations must be safe for
// concurrent use when shared between builds.
type Observer interface {
	// InstructionApplied fires once per primitive instruction.
	InstructionApplied(kind grammar.Kind)
	// LayerAdded fires for every nn layer the build creates.
	LayerAdded(layer *nn.Layer)
	// ModuleExpanded fires after all branches of a module were joined.
	ModuleExpanded(tag string, branches int)
	// BuildFinished fires once per Build with the number of layers created.
	BuildFinished(layers int, elapsed time.Duration, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) InstructionApplied(grammar.Kind)         {}
func (NopObserver) LayerAdded(*nn.Layer)                    {}
func (NopObserver) ModuleExpanded(string, int)              {}
func (NopObserver) BuildFinished(int, time.Duration, error) {}
