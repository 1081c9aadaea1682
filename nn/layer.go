// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nn

// LayerKind names the layer class, e.g. "Conv2D".
type LayerKind string

const (
	KindInput           LayerKind = "InputLayer"
	KindConv2D          LayerKind = "Conv2D"
	KindConv2DTranspose LayerKind = "Conv2DTranspose"
	KindBatchNorm       LayerKind = "BatchNormalization"
	KindActivation      LayerKind = "Activation"
	KindMaxPool2D       LayerKind = "MaxPooling2D"
	KindAvgPool2D       LayerKind = "AveragePooling2D"
	KindGlobalAvgPool2D LayerKind = "GlobalAveragePooling2D"
	KindFlatten         LayerKind = "Flatten"
	KindDense           LayerKind = "Dense"
	KindConcatenate     LayerKind = "Concatenate"
)

// LayerConfig holds whichever hyperparameters the layer kind uses.
type LayerConfig struct {
	Filters    int     `json:"filters,omitempty" yaml:"filters,omitempty"`
	Kernel     []int   `json:"kernel,omitempty" yaml:"kernel,omitempty,flow"`
	Strides    []int   `json:"strides,omitempty" yaml:"strides,omitempty,flow"`
	Padding    Padding `json:"padding,omitempty" yaml:"padding,omitempty"`
	Activation string  `json:"activation,omitempty" yaml:"activation,omitempty"`
	Units      int     `json:"units,omitempty" yaml:"units,omitempty"`
	Axis       int     `json:"axis,omitempty" yaml:"axis,omitempty"`
}

// Params counts the weights a layer owns.
type Params struct {
	Trainable    int `json:"trainable" yaml:"trainable"`
	NonTrainable int `json:"non_trainable" yaml:"non_trainable"`
}

func (p Params) Total() int { return p.Trainable + p.NonTrainable }

func (p Params) add(other Params) Params {
	return Params{
		Trainable:    p.Trainable + other.Trainable,
		NonTrainable: p.NonTrainable + other.NonTrainable,
	}
}

// Layer is one immutable operation in the graph.
type Layer struct {
	name    string
	kind    LayerKind
	config  LayerConfig
	inbound []*Node
	params  Params
	output  *Node
}

func (l *Layer) Name() string        { return l.name }
func (l *Layer) Kind() LayerKind     { return l.kind }
func (l *Layer) Config() LayerConfig { return l.config }
func (l *Layer) Params() Params      { return l.params }
func (l *Layer) Output() *Node       { return l.output }

// Inbound returns the nodes this layer consumes, in call order.
func (l *Layer) Inbound() []*Node {
	out := make([]*Node, len(l.inbound))
	copy(out, l.inbound)
	return out
}

// Node is the symbolic output of a layer. Every layer produces exactly one.
type Node struct {
	layer *Layer
	shape Shape
}

func (n *Node) Layer() *Layer { return n.layer }
func (n *Node) Shape() Shape  { return n.shape }
func (n *Node) Name() string  { return n.layer.name }

func newLayer(name string, kind LayerKind, cfg LayerConfig, inbound []*Node, out Shape, params Params) *Node {
	l := &Layer{
		name:    name,
		kind:    kind,
		config:  cfg,
		inbound: inbound,
		params:  params,
	}
	l.output = &Node{layer: l, shape: out}
	return l.output
}
