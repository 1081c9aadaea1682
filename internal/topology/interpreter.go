// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/naming"
	"github.com/vk/topogrid/nn"
)

// Input selects where a build starts: a fresh placeholder of a given shape,
// or an existing node when the model is embedded in a larger graph.
type Input struct {
	shape nn.Shape
	node  *nn.Node
}

// FromShape starts the build from a new placeholder named `{base}_input`.
func FromShape(shape nn.Shape) Input { return Input{shape: shape} }

// FromNode starts the build from node, which is used as-is.
func FromNode(node *nn.Node) Input { return Input{node: node} }

// Interpreter builds layer graphs from tables.
type Interpreter struct {
	observer Observer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithObserver reports build events to o.
func WithObserver(o Observer) Option {
	return func(it *Interpreter) {
		if o != nil {
			it.observer = o
		}
	}
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{observer: NopObserver{}}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Build interprets a table with a default Interpreter.
func Build(ctx context.Context, in Input, table *grammar.Table, baseName string) (input, output *nn.Node, err error) {
	return New().Build(ctx, in, table, baseName)
}

// Build walks the table's model sequence starting at in and returns the
// input node and the final output node. Nothing is returned on error.
func (it *Interpreter) Build(ctx context.Context, in Input, table *grammar.Table, baseName string) (input, output *nn.Node, err error) {
	start := time.Now()
	b := &build{
		ctx:      ctx,
		table:    table,
		observer: it.observer,
		logger:   ctxlog.FromContext(ctx),
	}
	defer func() {
		it.observer.BuildFinished(b.layers, time.Since(start), err)
	}()

	if baseName == "" {
		return nil, nil, fmt.Errorf("%w: model name cannot be empty", nn.ErrInvalidConfig)
	}
	if table == nil {
		return nil, nil, grammar.ErrMissingModel
	}
	seq, err := table.Model()
	if err != nil {
		return nil, nil, err
	}

	root := naming.Root(baseName)
	input = in.node
	if input == nil {
		input, err = b.add(nn.Input(in.shape, root.Input()))
		if err != nil {
			return nil, nil, err
		}
	}

	b.logger.Debug("Building topology.", "name", baseName, "input", input.Shape().String(), "instructions", len(seq))
	output, err = b.sequence(input, seq, root, true)
	if err != nil {
		return nil, nil, err
	}
	b.logger.Debug("Topology built.", "name", baseName, "layers", b.layers, "output", output.Shape().String())
	return input, output, nil
}

// build is the state of one Build call.
type build struct {
	ctx      context.Context
	table    *grammar.Table
	observer Observer
	logger   *slog.Logger
	// stack holds the modules currently being expanded, outermost first.
	stack  []string
	layers int
}

func (b *build) sequence(x *nn.Node, seq grammar.Sequence, scope naming.Scope, top bool) (*nn.Node, error) {
	for i, instr := range seq {
		if top {
			if err := b.ctx.Err(); err != nil {
				return nil, err
			}
		}
		step := scope.Step(i + 1)
		var err error
		if instr.Kind() == grammar.KindModule {
			x, err = b.module(x, instr.Tag, step)
		} else {
			x, err = b.primitive(x, instr, step)
		}
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

func (b *build) module(x *nn.Node, tag string, step naming.Scope) (*nn.Node, error) {
	m, ok := b.table.Lookup(tag)
	if !ok {
		return nil, &UnknownModuleError{Tag: tag, Path: step.Trace()}
	}
	if slices.Contains(b.stack, tag) {
		chain := append(slices.Clone(b.stack), tag)
		return nil, &ModuleCycleError{Chain: chain[slices.Index(chain, tag):]}
	}

	b.stack = append(b.stack, tag)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	b.logger.Debug("Expanding module.", "module", tag, "path", step.Trace(), "branches", len(m.Branches))
	outputs := make([]*nn.Node, 0, len(m.Branches))
	for k, branch := range m.Branches {
		out, err := b.sequence(x, branch, step.Branch(k+1, tag), false)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	y, err := b.add(nn.Concatenate(step.Concat(tag), outputs...))
	if err != nil {
		return nil, fmt.Errorf("module %q at %s: %w", tag, step.Trace(), err)
	}
	b.observer.ModuleExpanded(tag, len(m.Branches))
	return y, nil
}

func (b *build) primitive(x *nn.Node, in grammar.Instruction, step naming.Scope) (*nn.Node, error) {
	y, err := b.apply(x, in, step)
	if err != nil {
		if errors.Is(err, ErrInvalidParams) {
			return nil, err
		}
		return nil, fmt.Errorf("%s at %s: %w", in, step.Trace(), err)
	}
	b.observer.InstructionApplied(in.Kind())
	return y, nil
}

func (b *build) apply(x *nn.Node, in grammar.Instruction, step naming.Scope) (*nn.Node, error) {
	invalid := func(err error) error {
		return fmt.Errorf("%w: %s at %s: %w", ErrInvalidParams, in, step.Trace(), err)
	}

	switch in.Kind() {
	case grammar.KindActivation:
		fn, err := decodeActivation(in)
		if err != nil {
			return nil, invalid(err)
		}
		return b.add(nn.Activation(x, fn, step.Layer("A")))

	case grammar.KindAvgPool, grammar.KindMaxPool:
		args, err := decodePool(in)
		if err != nil {
			return nil, invalid(err)
		}
		cfg := nn.PoolConfig{Pool: args.pool, Strides: args.strides, Padding: nn.Padding(args.padding)}
		if in.Kind() == grammar.KindAvgPool {
			return b.add(nn.AvgPool2D(x, cfg, step.Layer("AP")))
		}
		return b.add(nn.MaxPool2D(x, cfg, step.Layer("MP")))

	case grammar.KindConvBNAct, grammar.KindConvTransposeBNAct:
		args, err := decodeConv(in)
		if err != nil {
			return nil, invalid(err)
		}
		cfg := nn.ConvConfig{Filters: args.filters, Kernel: args.kernel, Strides: args.strides, Padding: nn.Padding(args.padding)}
		if in.Kind() == grammar.KindConvBNAct {
			x, err = b.add(nn.Conv2D(x, cfg, step.Layer("C")))
		} else {
			x, err = b.add(nn.Conv2DTranspose(x, cfg, step.Layer("CT")))
		}
		if err != nil {
			return nil, err
		}
		if x, err = b.add(nn.BatchNorm(x, step.Layer("B"))); err != nil {
			return nil, err
		}
		return b.add(nn.Activation(x, args.activation, step.Layer("A")))

	case grammar.KindDense:
		units, err := decodeDense(in)
		if err != nil {
			return nil, invalid(err)
		}
		return b.add(nn.Dense(x, units, step.Layer("D")))

	case grammar.KindFlatten:
		features, err := decodeFlatten(in)
		if err != nil {
			return nil, invalid(err)
		}
		if features > 0 && features != x.Shape().Numel() {
			return nil, fmt.Errorf("%w: flatten expects %d features, input %s has %d",
				nn.ErrShapeMismatch, features, x.Shape(), x.Shape().Numel())
		}
		return b.add(nn.Flatten(x, step.Layer("F")))

	case grammar.KindGlobalAvgPool:
		if err := decodeNone(in); err != nil {
			return nil, invalid(err)
		}
		return b.add(nn.GlobalAvgPool2D(x, step.Layer("GAP")))

	default:
		return nil, fmt.Errorf("unhandled instruction kind %s", in.Kind())
	}
}

// add records a freshly created layer.
func (b *build) add(node *nn.Node, err error) (*nn.Node, error) {
	if err != nil {
		return nil, err
	}
	b.layers++
	b.observer.LayerAdded(node.Layer())
	return node, nil
}
