// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/topogrid/inception"
	"github.com/vk/topogrid/nn"
)

// Summary output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TablePath  string // table file or directory, empty for the built-in table
	InputShape string // e.g. "299,299,1"
	Name       string
	DenseEnd   bool

	Output      string // summary format
	Export      string // table format name, empty to build
	Check       bool
	MetricsFile string

	LogFormat string
	LogLevel  string

	shape nn.Shape
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Name == "" {
		cfg.Name = inception.DefaultName
	}
	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	cfg.Output = strings.ToLower(cfg.Output)
	cfg.Export = strings.ToLower(cfg.Export)

	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("invalid output %q: must be 'text', 'json' or 'yaml'", cfg.Output)
	}

	if cfg.DenseEnd && cfg.TablePath != "" {
		return nil, inception.ErrDenseEndWithCustomTable
	}
	if cfg.Check && cfg.Export != "" {
		return nil, errors.New("check and export cannot be combined")
	}

	cfg.shape = inception.DefaultInputShape()
	if cfg.InputShape != "" {
		shape, err := nn.ParseShape(cfg.InputShape)
		if err != nil {
			return nil, fmt.Errorf("invalid input shape: %w", err)
		}
		if shape.Rank() != 3 {
			return nil, fmt.Errorf("invalid input shape %s: want height, width and channels", shape)
		}
		cfg.shape = shape
	}

	return &cfg, nil
}

// Shape returns the parsed input shape.
func (c *Config) Shape() nn.Shape { return c.shape }
