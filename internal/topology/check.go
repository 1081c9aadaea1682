// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/dag"
	"github.com/vk/topogrid/internal/naming"
)

// Check validates a whole table without building it: every module
// reference must resolve, every primitive must carry decodable parameters,
// and no module may reach itself. Unused modules are checked too. All
// problems are returned together, joined with errors.Join.
func Check(ctx context.Context, table *grammar.Table) error {
	logger := ctxlog.FromContext(ctx)
	if table == nil {
		return grammar.ErrMissingModel
	}
	model, err := table.Model()
	if err != nil {
		return err
	}

	graph := dag.New()
	graph.AddNode(grammar.ModelKey)
	for _, name := range table.ModuleNames() {
		graph.AddNode(name)
	}

	var errs []error
	checkSeq := func(owner string, seq grammar.Sequence, scope naming.Scope) {
		for i, instr := range seq {
			step := scope.Step(i + 1)
			if instr.Kind() != grammar.KindModule {
				if err := decodeParams(instr); err != nil {
					errs = append(errs, fmt.Errorf("%w: %s at %s: %w", ErrInvalidParams, instr, step.Trace(), err))
				}
				continue
			}
			if _, ok := table.Lookup(instr.Tag); !ok {
				errs = append(errs, &UnknownModuleError{Tag: instr.Tag, Path: step.Trace()})
				continue
			}
			if err := graph.AddEdge(owner, instr.Tag); err != nil {
				errs = append(errs, err)
			}
		}
	}

	checkSeq(grammar.ModelKey, model, naming.Root(grammar.ModelKey))
	for _, name := range table.ModuleNames() {
		m, _ := table.Lookup(name)
		if len(m.Branches) == 0 {
			errs = append(errs, fmt.Errorf("module %q has no branches", name))
		}
		for k, branch := range m.Branches {
			checkSeq(name, branch, naming.Root(name).Branch(k+1, name))
		}
	}

	if err := graph.DetectCycles(); err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			errs = append(errs, &ModuleCycleError{Chain: cycle.Chain})
		} else {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		logger.Debug("Table check failed.", "problems", len(errs))
		return errors.Join(errs...)
	}
	logger.Debug("Table check passed.", "modules", len(table.ModuleNames()))
	return nil
}
