// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package inception

import "github.com/vk/topogrid/grammar"

// DenseHeadKey names the classification head sequence in the default table.
const DenseHeadKey = "dense_end"

var op = grammar.I

func cba(filters int, kernel any, stride int) grammar.Instruction {
	return op(grammar.TagConvBNAct, filters, kernel, stride, "same", "ReLU")
}

func ap2(pool, stride int) grammar.Instruction {
	return op(grammar.TagAvgPool, pool, stride, "same")
}

func mp2(pool, stride int) grammar.Instruction {
	return op(grammar.TagMaxPool, pool, stride, "same")
}

func ref(tag string) grammar.Instruction { return op(tag) }

// DefaultTable returns a fresh copy of the Inception v3 table. Callers may
// modify the result freely.
func DefaultTable() *grammar.Table {
	t := grammar.NewTable()

	t.SetSequence(grammar.ModelKey, grammar.Sequence{
		cba(32, 3, 2),  // 150x150x32
		cba(32, 3, 1),  // 150x150x32
		cba(64, 3, 1),  // 150x150x64
		mp2(3, 2),      // 75x75x64
		cba(80, 3, 1),  // 75x75x80
		cba(192, 3, 2), // 38x38x192
		cba(288, 3, 1), // 38x38x288
		ref("m1"),      // 38x38x288
		ref("m1"),
		ref("m1"),
		ref("m1r"), // 19x19x768
		ref("m2"),
		ref("m2"),
		ref("m2"),
		ref("m2"),
		ref("m2"),  // 19x19x768
		ref("m2r"), // 10x10x1280
		ref("m3"),
		ref("m3"), // 10x10x2048
	})
	t.SetSequence(DenseHeadKey, DenseHead())

	t.SetModule("m1",
		grammar.Sequence{cba(64, 1, 1), cba(96, 3, 1), cba(96, 3, 1)},
		grammar.Sequence{cba(48, 1, 1), cba(64, 3, 1)},
		grammar.Sequence{ap2(3, 1), cba(64, 1, 1)},
		grammar.Sequence{cba(64, 1, 1)},
	)
	t.SetModule("m1r",
		grammar.Sequence{cba(64, 1, 1), cba(96, 3, 1), cba(96, 3, 2)},
		grammar.Sequence{cba(384, 3, 2)},
		grammar.Sequence{ap2(3, 2), ap2(1, 1)},
	)
	t.SetModule("m2",
		grammar.Sequence{cba(128, 1, 1), cba(128, 1, 1), cba(128, 3, 1), cba(128, 1, 1), cba(192, 3, 1)},
		grammar.Sequence{cba(128, 1, 1), cba(128, 1, 1), cba(192, 3, 1)},
		grammar.Sequence{ap2(3, 1), cba(192, 1, 1)},
		grammar.Sequence{cba(192, 1, 1)},
	)
	t.SetModule("m2r",
		grammar.Sequence{cba(192, 1, 1), cba(192, 1, 1), cba(192, 3, 1), cba(192, 3, 2)},
		grammar.Sequence{cba(192, 1, 1), cba(320, 3, 2)},
		grammar.Sequence{ap2(3, 2), ap2(1, 1)},
	)
	t.SetModule("m3",
		grammar.Sequence{cba(448, 1, 1), cba(384, 3, 1), ref("m3a")},
		grammar.Sequence{cba(384, 1, 1), ref("m3a")},
		grammar.Sequence{ap2(3, 1), cba(192, 1, 1)},
		grammar.Sequence{cba(320, 1, 1)},
	)
	t.SetModule("m3a",
		grammar.Sequence{cba(384, [2]int{1, 3}, 1)},
		grammar.Sequence{cba(384, [2]int{3, 1}, 1)},
	)
	return t
}

// DenseHead returns the classification head: global pooling, flatten, a
// 1000 unit dense layer and a ReLU.
func DenseHead() grammar.Sequence {
	return grammar.Sequence{
		op(grammar.TagGlobalAvgPool),
		op(grammar.TagFlatten),
		op(grammar.TagDense, 1000),
		op(grammar.TagActivation, "ReLU"),
	}
}
