// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package grammar

// Kind is the closed set of instruction variants. Every tag maps to exactly
// one Kind; tags outside the primitive set are module references.
type Kind int

const (
	KindModule Kind = iota
	KindActivation
	KindAvgPool
	KindConvBNAct
	KindConvTransposeBNAct
	KindDense
	KindFlatten
	KindGlobalAvgPool
	KindMaxPool
)

// Primitive tags.
const (
	TagActivation         = "a"
	TagAvgPool            = "ap2"
	TagConvBNAct          = "cba"
	TagConvTransposeBNAct = "ctba"
	TagDense              = "d"
	TagFlatten            = "f"
	TagGlobalAvgPool      = "gap2"
	TagMaxPool            = "mp2"
)

var primitiveKinds = map[string]Kind{
	TagActivation:         KindActivation,
	TagAvgPool:            KindAvgPool,
	TagConvBNAct:          KindConvBNAct,
	TagConvTransposeBNAct: KindConvTransposeBNAct,
	TagDense:              KindDense,
	TagFlatten:            KindFlatten,
	TagGlobalAvgPool:      KindGlobalAvgPool,
	TagMaxPool:            KindMaxPool,
}

// Classify returns the Kind selected by tag. Unknown tags are KindModule;
// whether the module exists is decided by the table, not here.
func Classify(tag string) Kind {
	if k, ok := primitiveKinds[tag]; ok {
		return k
	}
	return KindModule
}

// IsPrimitive reports whether tag names a primitive instruction.
func IsPrimitive(tag string) bool {
	return Classify(tag) != KindModule
}

// String returns the name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindActivation:
		return "activation"
	case KindAvgPool:
		return "avg_pool"
	case KindConvBNAct:
		return "conv_bn_act"
	case KindConvTransposeBNAct:
		return "conv_transpose_bn_act"
	case KindDense:
		return "dense"
	case KindFlatten:
		return "flatten"
	case KindGlobalAvgPool:
		return "global_avg_pool"
	case KindMaxPool:
		return "max_pool"
	default:
		return "unknown"
	}
}
