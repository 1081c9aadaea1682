// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/topogrid/grammar"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders a table as an HCL document that Parse reads back into an
// equal table. The model sequence comes first, then the remaining sequences
// and the modules in name order.
func Encode(table *grammar.Table) ([]byte, error) {
	if _, err := table.Model(); err != nil {
		return nil, err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()

	names := []string{grammar.ModelKey}
	for _, name := range table.SequenceNames() {
		if name != grammar.ModelKey {
			names = append(names, name)
		}
	}
	first := true
	for _, name := range names {
		if !first {
			body.AppendNewline()
		}
		first = false
		seq, _ := table.Sequence(name)
		block := body.AppendNewBlock(sequenceBlock, []string{name})
		block.Body().SetAttributeRaw(layersAttr, layersTokens(seq))
	}

	for _, name := range table.ModuleNames() {
		body.AppendNewline()
		m, _ := table.Lookup(name)
		block := body.AppendNewBlock(moduleBlock, []string{name})
		for _, branch := range m.Branches {
			b := block.Body().AppendNewBlock(branchBlock, nil)
			b.Body().SetAttributeRaw(layersAttr, layersTokens(branch))
		}
	}

	return hclwrite.Format(f.Bytes()), nil
}

// layersTokens writes one instruction per line.
func layersTokens(seq grammar.Sequence) hclwrite.Tokens {
	if len(seq) == 0 {
		return hclwrite.TokensForValue(cty.EmptyTupleVal)
	}
	tokens := hclwrite.Tokens{
		{Type: hclsyntax.TokenOBrack, Bytes: []byte("[")},
		{Type: hclsyntax.TokenNewline, Bytes: []byte("\n")},
	}
	for _, instr := range seq {
		elems := make([]cty.Value, 0, len(instr.Params)+1)
		elems = append(elems, cty.StringVal(instr.Tag))
		elems = append(elems, instr.Params...)
		tokens = append(tokens, hclwrite.TokensForValue(cty.TupleVal(elems))...)
		tokens = append(tokens,
			&hclwrite.Token{Type: hclsyntax.TokenComma, Bytes: []byte(",")},
			&hclwrite.Token{Type: hclsyntax.TokenNewline, Bytes: []byte("\n")},
		)
	}
	return append(tokens, &hclwrite.Token{Type: hclsyntax.TokenCBrack, Bytes: []byte("]")})
}
