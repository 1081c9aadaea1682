// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import "github.com/hashicorp/hcl/v2"

const (
	sequenceBlock = "sequence"
	moduleBlock   = "module"
	branchBlock   = "branch"
	layersAttr    = "layers"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: sequenceBlock, LabelNames: []string{"name"}},
		{Type: moduleBlock, LabelNames: []string{"name"}},
	},
}

// layersBody is the body of a `sequence` or `branch` block.
type layersBody struct {
	Layers hcl.Expression `hcl:"layers"`
}

// moduleBody is the body of a `module` block.
type moduleBody struct {
	Branches []*layersBody `hcl:"branch,block"`
}
