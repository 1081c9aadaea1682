// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

import "fmt"

// ConvConfig configures Conv2D and Conv2DTranspose.
type ConvConfig struct {
	Filters int
	Kernel  [2]int
	Strides [2]int
	Padding Padding
}

// PoolConfig configures MaxPool2D and AvgPool2D.
type PoolConfig struct {
	Pool    [2]int
	Strides [2]int
	Padding Padding
}

// Square returns a kernel or stride pair with both sides set to n.
func Square(n int) [2]int { return [2]int{n, n} }

// Input creates a placeholder node of the given shape.
func Input(shape Shape, name string) (*Node, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := shape.validate(); err != nil {
		return nil, fmt.Errorf("input %q: %w", name, err)
	}
	return newLayer(name, KindInput, LayerConfig{}, nil, NewShape(shape.dims...), Params{}), nil
}

// Conv2D is a 2D convolution with bias.
func Conv2D(x *Node, cfg ConvConfig, name string) (*Node, error) {
	if err := checkSpatial(x, name); err != nil {
		return nil, err
	}
	if err := cfg.normalize(name); err != nil {
		return nil, err
	}
	in := x.shape
	h := convOutput(in.At(0), cfg.Kernel[0], cfg.Strides[0], cfg.Padding)
	w := convOutput(in.At(1), cfg.Kernel[1], cfg.Strides[1], cfg.Padding)
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: layer %q: kernel %v does not fit input %s", ErrShapeMismatch, name, cfg.Kernel, in)
	}
	weights := cfg.Kernel[0]*cfg.Kernel[1]*in.At(-1)*cfg.Filters + cfg.Filters
	return newLayer(name, KindConv2D, cfg.layerConfig(), []*Node{x},
		NewShape(h, w, cfg.Filters), Params{Trainable: weights}), nil
}

// Conv2DTranspose is a 2D transposed convolution with bias.
func Conv2DTranspose(x *Node, cfg ConvConfig, name string) (*Node, error) {
	if err := checkSpatial(x, name); err != nil {
		return nil, err
	}
	if err := cfg.normalize(name); err != nil {
		return nil, err
	}
	in := x.shape
	h := transposedOutput(in.At(0), cfg.Kernel[0], cfg.Strides[0], cfg.Padding)
	w := transposedOutput(in.At(1), cfg.Kernel[1], cfg.Strides[1], cfg.Padding)
	weights := cfg.Kernel[0]*cfg.Kernel[1]*in.At(-1)*cfg.Filters + cfg.Filters
	return newLayer(name, KindConv2DTranspose, cfg.layerConfig(), []*Node{x},
		NewShape(h, w, cfg.Filters), Params{Trainable: weights}), nil
}

// BatchNorm normalizes over the last axis. Gamma and beta are trainable,
// the moving mean and variance are not.
func BatchNorm(x *Node, name string) (*Node, error) {
	if err := checkNode(x, name); err != nil {
		return nil, err
	}
	c := x.shape.At(-1)
	return newLayer(name, KindBatchNorm, LayerConfig{Axis: -1}, []*Node{x},
		x.shape, Params{Trainable: 2 * c, NonTrainable: 2 * c}), nil
}

// Activation applies an element-wise function named by kind.
func Activation(x *Node, kind string, name string) (*Node, error) {
	if err := checkNode(x, name); err != nil {
		return nil, err
	}
	fn, err := ParseActivation(kind)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", name, err)
	}
	return newLayer(name, KindActivation, LayerConfig{Activation: fn}, []*Node{x}, x.shape, Params{}), nil
}

// MaxPool2D takes the maximum over each window.
func MaxPool2D(x *Node, cfg PoolConfig, name string) (*Node, error) {
	return pool(x, cfg, name, KindMaxPool2D)
}

// AvgPool2D averages over each window.
func AvgPool2D(x *Node, cfg PoolConfig, name string) (*Node, error) {
	return pool(x, cfg, name, KindAvgPool2D)
}

func pool(x *Node, cfg PoolConfig, name string, kind LayerKind) (*Node, error) {
	if err := checkSpatial(x, name); err != nil {
		return nil, err
	}
	if err := checkPair("pool size", cfg.Pool, name); err != nil {
		return nil, err
	}
	if err := checkPair("strides", cfg.Strides, name); err != nil {
		return nil, err
	}
	padding, err := ParsePadding(string(cfg.Padding))
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", name, err)
	}
	cfg.Padding = padding
	in := x.shape
	h := convOutput(in.At(0), cfg.Pool[0], cfg.Strides[0], cfg.Padding)
	w := convOutput(in.At(1), cfg.Pool[1], cfg.Strides[1], cfg.Padding)
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: layer %q: pool %v does not fit input %s", ErrShapeMismatch, name, cfg.Pool, in)
	}
	lc := LayerConfig{
		Kernel:  []int{cfg.Pool[0], cfg.Pool[1]},
		Strides: []int{cfg.Strides[0], cfg.Strides[1]},
		Padding: cfg.Padding,
	}
	return newLayer(name, kind, lc, []*Node{x}, NewShape(h, w, in.At(-1)), Params{}), nil
}

// GlobalAvgPool2D averages each channel over both spatial axes.
func GlobalAvgPool2D(x *Node, name string) (*Node, error) {
	if err := checkSpatial(x, name); err != nil {
		return nil, err
	}
	return newLayer(name, KindGlobalAvgPool2D, LayerConfig{}, []*Node{x}, NewShape(x.shape.At(-1)), Params{}), nil
}

// Flatten reshapes its input to one dimension.
func Flatten(x *Node, name string) (*Node, error) {
	if err := checkNode(x, name); err != nil {
		return nil, err
	}
	return newLayer(name, KindFlatten, LayerConfig{}, []*Node{x}, NewShape(x.shape.Numel()), Params{}), nil
}

// Dense is a fully connected layer with bias applied to the last axis.
func Dense(x *Node, units int, name string) (*Node, error) {
	if err := checkNode(x, name); err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: layer %q: units must be positive, got %d", ErrInvalidConfig, name, units)
	}
	weights := x.shape.At(-1)*units + units
	return newLayer(name, KindDense, LayerConfig{Units: units}, []*Node{x},
		x.shape.withLast(units), Params{Trainable: weights}), nil
}

// Concatenate joins nodes along the last axis in the given order. All other
// dimensions must agree.
func Concatenate(name string, nodes ...*Node) (*Node, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: layer %q: concatenate needs at least one input", ErrInvalidConfig, name)
	}
	first := nodes[0]
	if first == nil {
		return nil, fmt.Errorf("%w: layer %q: input 0 is nil", ErrInvalidConfig, name)
	}
	channels := 0
	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: layer %q: input %d is nil", ErrInvalidConfig, name, i)
		}
		if n.shape.Rank() != first.shape.Rank() {
			return nil, fmt.Errorf("%w: layer %q: input %d has rank %d, want %d",
				ErrShapeMismatch, name, i, n.shape.Rank(), first.shape.Rank())
		}
		for d := 0; d < n.shape.Rank()-1; d++ {
			if n.shape.At(d) != first.shape.At(d) {
				return nil, fmt.Errorf("%w: layer %q: input %d shape %s incompatible with %s",
					ErrShapeMismatch, name, i, n.shape, first.shape)
			}
		}
		channels += n.shape.At(-1)
	}
	inbound := make([]*Node, len(nodes))
	copy(inbound, nodes)
	return newLayer(name, KindConcatenate, LayerConfig{Axis: -1}, inbound,
		first.shape.withLast(channels), Params{}), nil
}

// normalize validates the config and canonicalizes its padding.
func (c *ConvConfig) normalize(name string) error {
	if c.Filters <= 0 {
		return fmt.Errorf("%w: layer %q: filters must be positive, got %d", ErrInvalidConfig, name, c.Filters)
	}
	if err := checkPair("kernel", c.Kernel, name); err != nil {
		return err
	}
	if err := checkPair("strides", c.Strides, name); err != nil {
		return err
	}
	padding, err := ParsePadding(string(c.Padding))
	if err != nil {
		return fmt.Errorf("layer %q: %w", name, err)
	}
	c.Padding = padding
	return nil
}

func (c ConvConfig) layerConfig() LayerConfig {
	return LayerConfig{
		Filters: c.Filters,
		Kernel:  []int{c.Kernel[0], c.Kernel[1]},
		Strides: []int{c.Strides[0], c.Strides[1]},
		Padding: c.Padding,
	}
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: layer name cannot be empty", ErrInvalidConfig)
	}
	return nil
}

func checkNode(x *Node, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if x == nil {
		return fmt.Errorf("%w: layer %q: input node is nil", ErrInvalidConfig, name)
	}
	return nil
}

func checkSpatial(x *Node, name string) error {
	if err := checkNode(x, name); err != nil {
		return err
	}
	if x.shape.Rank() != 3 {
		return fmt.Errorf("%w: layer %q: want (height, width, channels) input, got %s", ErrShapeMismatch, name, x.shape)
	}
	return nil
}

func checkPair(what string, p [2]int, name string) error {
	if p[0] <= 0 || p[1] <= 0 {
		return fmt.Errorf("%w: layer %q: %s must be positive, got %v", ErrInvalidConfig, name, what, p)
	}
	return nil
}
