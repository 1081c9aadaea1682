// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/fsutil"
)

// ErrNoTableFiles is returned when a path holds no file of a known format.
var ErrNoTableFiles = errors.New("no table files found")

// Registry holds the known table formats.
type Registry struct {
	formats []Format
}

// NewRegistry creates a registry of the given formats. It panics when two
// formats claim the same name or extension.
func NewRegistry(formats ...Format) *Registry {
	names := make(map[string]bool)
	exts := make(map[string]bool)
	for _, f := range formats {
		if names[f.Name] {
			panic(fmt.Sprintf("config: duplicate format %q", f.Name))
		}
		names[f.Name] = true
		for _, ext := range f.Extensions {
			ext = strings.ToLower(ext)
			if exts[ext] {
				panic(fmt.Sprintf("config: extension %q registered twice", ext))
			}
			exts[ext] = true
		}
	}
	return &Registry{formats: formats}
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Format finds a format by name.
func (r *Registry) Format(name string) (Format, error) {
	for _, f := range r.formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("unknown table format %q (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Load reads a table from a file or a directory. Each format loads its own
// files; the partial tables are merged, so a table may mix formats as long
// as no name is defined twice.
func (r *Registry) Load(ctx context.Context, path string) (*grammar.Table, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access table path: %w", err)
	}

	table := grammar.NewTable()
	found := false
	for _, f := range r.formats {
		files, err := fsutil.FindFilesByExtension(path, f.Extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		if len(files) == 0 {
			continue
		}
		found = true
		logger.Debug("Loading table files.", "format", f.Name, "count", len(files))

		part, err := f.Loader.Load(ctx, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s table: %w", f.Name, err)
		}
		if err := table.Merge(part); err != nil {
			return nil, fmt.Errorf("failed to merge %s table: %w", f.Name, err)
		}
	}
	if !found {
		if info.IsDir() {
			return nil, fmt.Errorf("%w in directory %s", ErrNoTableFiles, path)
		}
		return nil, fmt.Errorf("%w: %s has an unsupported extension", ErrNoTableFiles, path)
	}
	return table, nil
}
