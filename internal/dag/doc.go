// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package dag is a small, concurrency-safe directed graph keyed by string IDs.
//
// The topology checker uses it to model which table modules reference which
// other modules. An edge `a -> b` means "b is expanded inside a", so a cycle
// is a module that (directly or transitively) expands itself and would make
// the interpreter recurse forever.
//
// Every query returns IDs in sorted order so that error messages and
// listings are reproducible between runs.
package dag
