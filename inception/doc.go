// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package inception builds Inception v3 style networks from topology tables.
//
// The zero-option call builds the stock Inception v3 feature extractor for a
// single channel 299x299 input:
//
//	model, err := inception.New(ctx)
//
// Any table with a `model` sequence can be supplied with WithTable, and an
// existing node can stand in for the input placeholder with WithInputNode.
package inception
