// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"

	"github.com/vk/topogrid/grammar"
)

// Loader is the interface for a format-specific table loader.
type Loader interface {
	// Load reads every file of its format under the given paths and merges
	// them into one table.
	Load(ctx context.Context, paths ...string) (*grammar.Table, error)
}

// EncoderFunc renders a table in a specific format.
type EncoderFunc func(table *grammar.Table) ([]byte, error)

// Format describes one table file format.
type Format struct {
	// Name is used to select the format for export, e.g. "hcl".
	Name       string
	Extensions []string
	Loader     Loader
	Encode     EncoderFunc
}
