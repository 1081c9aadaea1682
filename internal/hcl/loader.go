// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/topogrid/grammar"
	"github.com/vk/topogrid/internal/ctxlog"
	"github.com/vk/topogrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file extension this package reads.
const Extension = ".hcl"

// Loader reads HCL table files.
type Loader struct{}

// NewLoader creates a new HCL table loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under the given paths and merges them into one
// table. Paths may be files or directories. Problems are reported as
// hcl.Diagnostics carrying source positions.
func (l *Loader) Load(ctx context.Context, paths ...string) (*grammar.Table, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	var files []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("failed to find HCL files in %s: %w", path, err)
		}
		for _, f := range found {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	d := newDecoder()
	parser := hclparse.NewParser()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		f, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		d.decodeFile(f)
	}
	if d.diags.HasErrors() {
		return nil, d.diags
	}

	logger.Debug("HCL loading complete.", "sequences", len(d.table.Sequences), "modules", len(d.table.Modules))
	return d.table, nil
}

// Parse decodes a single HCL document. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*grammar.Table, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	d := newDecoder()
	d.decodeFile(f)
	if d.diags.HasErrors() {
		return nil, d.diags
	}
	return d.table, nil
}

// decoder accumulates a table over one or more files.
type decoder struct {
	table *grammar.Table
	// defined remembers where each name was first declared.
	defined map[string]hcl.Range
	diags   hcl.Diagnostics
}

func newDecoder() *decoder {
	return &decoder{
		table:   grammar.NewTable(),
		defined: make(map[string]hcl.Range),
	}
}

func (d *decoder) decodeFile(f *hcl.File) {
	content, diags := f.Body.Content(fileSchema)
	d.diags = append(d.diags, diags...)
	if content == nil {
		return
	}

	for _, block := range content.Blocks {
		if len(block.Labels) != 1 {
			continue
		}
		name := block.Labels[0]
		if !d.claim(block.Type, name, block.DefRange) {
			continue
		}
		switch block.Type {
		case sequenceBlock:
			var body layersBody
			if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
				d.diags = append(d.diags, diags...)
				continue
			}
			seq, diags := decodeLayers(body.Layers)
			d.diags = append(d.diags, diags...)
			d.table.SetSequence(name, seq)

		case moduleBlock:
			var body moduleBody
			if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
				d.diags = append(d.diags, diags...)
				continue
			}
			if len(body.Branches) == 0 {
				d.diags = append(d.diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Module without branches",
					Detail:   fmt.Sprintf("Module %q must declare at least one \"branch\" block.", name),
					Subject:  block.DefRange.Ptr(),
				})
				continue
			}
			branches := make([]grammar.Sequence, 0, len(body.Branches))
			for _, b := range body.Branches {
				seq, diags := decodeLayers(b.Layers)
				d.diags = append(d.diags, diags...)
				branches = append(branches, seq)
			}
			d.table.SetModule(name, branches...)
		}
	}
}

// claim records the definition of name, reporting a duplicate when the name
// is already taken by any sequence or module.
func (d *decoder) claim(blockType, name string, rng hcl.Range) bool {
	if prev, exists := d.defined[name]; exists {
		d.diags = append(d.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Duplicate \"" + blockType + "\" block",
			Detail:   fmt.Sprintf("The name %q was already defined at %s. Sequence and module names must be unique.", name, prev),
			Subject:  rng.Ptr(),
		})
		return false
	}
	d.defined[name] = rng
	return true
}

// decodeLayers turns a list of instruction lists into a sequence.
func decodeLayers(expr hcl.Expression) (grammar.Sequence, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	// Evaluating item by item keeps a precise range for each instruction.
	if tuple, ok := expr.(*hclsyntax.TupleConsExpr); ok {
		seq := make(grammar.Sequence, 0, len(tuple.Exprs))
		for _, item := range tuple.Exprs {
			v, valDiags := item.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			instr, diag := decodeInstruction(v, item.Range())
			if diag != nil {
				diags = append(diags, diag)
				continue
			}
			seq = append(seq, instr)
		}
		return seq, diags
	}

	v, valDiags := expr.Value(nil)
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		// gohcl hands a static null in for an absent attribute.
		if _, written := expr.(hclsyntax.Expression); !written {
			return nil, append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing required argument",
				Detail:   fmt.Sprintf("The argument %q is required, but no definition was found.", layersAttr),
				Subject:  expr.Range().Ptr(),
			})
		}
	}
	if !v.Type().IsTupleType() && !v.Type().IsListType() {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid layers value",
			Detail:   "The \"layers\" attribute must be a list of instructions.",
			Subject:  expr.Range().Ptr(),
		})
	}
	seq := make(grammar.Sequence, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		instr, diag := decodeInstruction(ev, expr.Range())
		if diag != nil {
			diags = append(diags, diag)
			continue
		}
		seq = append(seq, instr)
	}
	return seq, diags
}

// decodeInstruction reads `["tag", params...]`.
func decodeInstruction(v cty.Value, rng hcl.Range) (grammar.Instruction, *hcl.Diagnostic) {
	invalid := func(detail string) *hcl.Diagnostic {
		return &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid instruction",
			Detail:   detail,
			Subject:  rng.Ptr(),
		}
	}

	if v.IsNull() || !v.IsWhollyKnown() {
		return grammar.Instruction{}, invalid("An instruction cannot be null.")
	}
	if !v.Type().IsTupleType() && !v.Type().IsListType() {
		return grammar.Instruction{}, invalid("An instruction must be a list whose first element is the layer tag, e.g. [\"cba\", 32, 3, 2, \"same\", \"ReLU\"].")
	}
	elems := v.AsValueSlice()
	if len(elems) == 0 {
		return grammar.Instruction{}, invalid("An instruction cannot be empty.")
	}
	tag := elems[0]
	if tag.IsNull() || !tag.Type().Equals(cty.String) || tag.AsString() == "" {
		return grammar.Instruction{}, invalid("The first element of an instruction must be a non-empty tag string.")
	}

	params := make([]cty.Value, 0, len(elems)-1)
	for _, p := range elems[1:] {
		params = append(params, normalizeParam(p))
	}
	return grammar.Instruction{Tag: tag.AsString(), Params: params}, nil
}

// normalizeParam turns lists into tuples so tables compare equal no matter
// which format produced them.
func normalizeParam(v cty.Value) cty.Value {
	if v.Type().IsListType() && v.LengthInt() > 0 {
		return cty.TupleVal(v.AsValueSlice())
	}
	return v
}
