// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vk/topogrid/nn"
	"gopkg.in/yaml.v3"
)

// report is the machine readable form of a built model.
type report struct {
	Name    string          `json:"name" yaml:"name"`
	ID      string          `json:"id" yaml:"id"`
	Input   []int           `json:"input_shape" yaml:"input_shape,flow"`
	Output  []int           `json:"output_shape" yaml:"output_shape,flow"`
	Layers  int             `json:"layer_count" yaml:"layer_count"`
	Params  nn.Params       `json:"params" yaml:"params"`
	Summary []nn.SummaryRow `json:"layers" yaml:"layers"`
}

func newReport(m *nn.Model) report {
	return report{
		Name:    m.Name(),
		ID:      m.ID().String(),
		Input:   m.Inputs()[0].Shape().Dims(),
		Output:  m.Outputs()[0].Shape().Dims(),
		Layers:  m.LayerCount(),
		Params:  m.CountParams(),
		Summary: m.Summary(),
	}
}

func render(w io.Writer, format string, m *nn.Model) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(m))
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(m)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderText(w, m)
	}
}

// renderText prints one row per layer followed by the totals.
func renderText(w io.Writer, m *nn.Model) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Model: %q\n", m.Name())
	fmt.Fprintln(tw, "Layer\tKind\tOutput Shape\tParams\tConnected to")
	for _, row := range m.Summary() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			row.Name, row.Kind, nn.NewShape(row.OutputShape...), row.Params, strings.Join(row.Inbound, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	params := m.CountParams()
	_, err := fmt.Fprintf(w, "Total layers: %d\nTotal params: %d\nTrainable params: %d\nNon-trainable params: %d\n",
		m.LayerCount(), params.Total(), params.Trainable, params.NonTrainable)
	return err
}
