// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package nn is a small symbolic layer library. It records layers, their
// configuration, inferred output shapes and parameter counts, and wires them
// into a Model. Nothing is executed: a Model is a graph description that an
// execution backend can consume.
//
// Shapes exclude the batch dimension and use channels-last layout, so an
// image input is (height, width, channels).
package nn
