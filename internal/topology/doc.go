// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package topology interprets a grammar.Table into an nn layer graph.
//
// Interpretation is a recursive descent over the table's `model` sequence.
// Primitive instructions become one or more nn layers named after their
// position; module references expand every branch from the same input and
// join the branch outputs with a channel concatenation. The table is only
// read, so a single table can serve any number of concurrent builds.
package topology
