// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/inception"
	"github.com/vk/topogrid/internal/config"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/metrics"
	"github.com/vk/topogrid/internal/topology"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	formats   *config.Registry
	collector *metrics.Collector
}

// NewApp is the constructor for the main application. Results go to outW,
// logs to logW. A nil formats registry selects DefaultFormats.
func NewApp(outW, logW io.Writer, cfg *Config, formats *config.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if formats == nil {
		formats = DefaultFormats()
	}
	logger.Debug("Table formats registered.", "formats", formats.Names())

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		formats:   formats,
		collector: metrics.NewCollector(metrics.DefaultNamespace, logger),
	}
}

// Collector returns the build metrics collector. This is primarily for testing.
func (a *App) Collector() *metrics.Collector {
	return a.collector
}

// Run executes one invocation: check, export or build.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	custom, err := a.loadTable(ctx)
	if err != nil {
		return err
	}

	switch {
	case a.config.Check:
		return a.check(ctx, custom)
	case a.config.Export != "":
		return a.export(custom)
	}

	err = a.build(ctx, custom)
	if a.config.MetricsFile != "" {
		if werr := a.collector.WriteTextfile(a.config.MetricsFile); werr != nil {
			a.logger.Error("Failed to write metrics file.", "path", a.config.MetricsFile, "error", werr)
			if err == nil {
				err = werr
			}
		}
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

// loadTable reads the configured table. It returns nil for the built-in one.
func (a *App) loadTable(ctx context.Context) (*grammar.Table, error) {
	if a.config.TablePath == "" {
		a.logger.Debug("No table path given, using the built-in table.")
		return nil, nil
	}
	table, err := a.formats.Load(ctx, a.config.TablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}
	a.logger.Info("Table loaded.",
		"path", a.config.TablePath,
		"sequences", len(table.SequenceNames()),
		"modules", len(table.ModuleNames()),
	)
	return table, nil
}

func (a *App) check(ctx context.Context, custom *grammar.Table) error {
	table, err := inception.ResolveTable(custom, a.config.DenseEnd)
	if err != nil {
		return err
	}
	if err := topology.Check(ctx, table); err != nil {
		return fmt.Errorf("table check failed: %w", err)
	}
	a.logger.Info("✅ Table is valid.")
	_, err = fmt.Fprintf(a.outW, "ok: %d sequences, %d modules\n", len(table.SequenceNames()), len(table.ModuleNames()))
	return err
}

func (a *App) export(custom *grammar.Table) error {
	format, err := a.formats.Format(a.config.Export)
	if err != nil {
		return err
	}
	table, err := inception.ResolveTable(custom, a.config.DenseEnd)
	if err != nil {
		return err
	}
	data, err := format.Encode(table)
	if err != nil {
		return fmt.Errorf("failed to export table as %s: %w", format.Name, err)
	}
	_, err = a.outW.Write(data)
	return err
}

func (a *App) build(ctx context.Context, custom *grammar.Table) error {
	shape := a.config.Shape()
	if shape.Rank() == 0 {
		shape = inception.DefaultInputShape()
	}

	a.logger.Info("🚀 Building model...", "name", a.config.Name, "input", shape.String())
	model, err := inception.New(ctx,
		inception.WithInputShape(shape.At(0), shape.At(1), shape.At(2)),
		inception.WithTable(custom),
		inception.WithDenseEnd(a.config.DenseEnd),
		inception.WithName(a.config.Name),
		inception.WithObserver(a.collector),
	)
	if err != nil {
		return err
	}
	params := model.CountParams()
	a.logger.Info("🏁 Model built.",
		"layers", model.LayerCount(),
		"params", params.Total(),
		"output", model.Outputs()[0].Shape().String(),
	)

	return render(a.outW, a.config.Output, model)
}
