// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package grammar defines the data model of a topology table.
//
// A table maps names to instruction lists. The `model` sequence is the
// top-level body; every other entry is either a plain sequence (for example
// a classification head kept next to the model) or a branching module whose
// branches are expanded side by side and concatenated on the channel axis.
//
//	t := grammar.NewTable()
//	t.SetSequence(grammar.ModelKey, grammar.Sequence{
//		grammar.I("cba", 32, 3, 2, "same", "ReLU"),
//		grammar.I("m1"),
//	})
//	t.SetModule("m1",
//		grammar.Sequence{grammar.I("cba", 64, 1, 1, "same", "ReLU")},
//		grammar.Sequence{grammar.I("ap2", 3, 1, "same")},
//	)
//
// Parameters are stored as cty values so that tables loaded from HCL, YAML
// or built in Go share one representation. Tables are plain values: they are
// filled once, then only read while a model is being built. Variants are
// made with Clone or WithHead, never by editing a shared table.
package grammar
