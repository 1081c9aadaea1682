// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package metrics records build statistics as Prometheus metrics.
package metrics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/nn"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "topogrid"

// Collector implements topology.Observer on a private registry.
type Collector struct {
	registry *prometheus.Registry

	buildsTotal       *prometheus.CounterVec
	buildDuration     *prometheus.HistogramVec
	buildLayers       prometheus.Gauge
	layersTotal       *prometheus.CounterVec
	instructionsTotal *prometheus.CounterVec
	moduleExpansions  *prometheus.CounterVec
	moduleBranches    *prometheus.HistogramVec

	logger *slog.Logger
}

// NewCollector creates a collector with its own registry.
func NewCollector(namespace string, logger *slog.Logger) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	c := &Collector{
		registry: reg,
		logger:   logger.With("component", "metrics"),
	}

	c.buildsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total number of topology builds",
		},
		[]string{"status"},
	)

	c.buildDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Topology build duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"status"},
	)

	c.buildLayers = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_layers",
			Help:      "Number of layers created by the most recent build",
		},
	)

	c.layersTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layers_total",
			Help:      "Total number of layers created, by layer kind",
		},
		[]string{"kind"},
	)

	c.instructionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instructions_total",
			Help:      "Total number of primitive instructions applied, by kind",
		},
		[]string{"kind"},
	)

	c.moduleExpansions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_expansions_total",
			Help:      "Total number of module expansions, by module",
		},
		[]string{"module"},
	)

	c.moduleBranches = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "module_branches",
			Help:      "Number of branches joined per module expansion",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		},
		[]string{"module"},
	)

	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) InstructionApplied(kind grammar.Kind) {
	c.instructionsTotal.WithLabelValues(kind.String()).Inc()
}

func (c *Collector) LayerAdded(layer *nn.Layer) {
	c.layersTotal.WithLabelValues(string(layer.Kind())).Inc()
}

func (c *Collector) ModuleExpanded(tag string, branches int) {
	c.moduleExpansions.WithLabelValues(tag).Inc()
	c.moduleBranches.WithLabelValues(tag).Observe(float64(branches))
}

func (c *Collector) BuildFinished(layers int, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.buildsTotal.WithLabelValues(status).Inc()
	c.buildDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	c.buildLayers.Set(float64(layers))
	c.logger.Debug("Build recorded.", "status", status, "layers", layers, "elapsed", elapsed)
}

// WriteTextfile writes every metric in the Prometheus text format to path,
// replacing the file atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	c.logger.Debug("Metrics written.", "path", path)
	return nil
}
