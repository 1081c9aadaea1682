// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package hcl reads and writes topology tables in HCL.
//
// A table file holds `sequence` blocks for plain instruction lists and
// `module` blocks whose `branch` blocks each carry one instruction list:
//
//	sequence "model" {
//	  layers = [
//	    ["cba", 32, 3, 2, "same", "ReLU"],
//	    ["m3a"],
//	  ]
//	}
//
//	module "m3a" {
//	  branch {
//	    layers = [["cba", 384, [1, 3], 1, "same", "ReLU"]]
//	  }
//	  branch {
//	    layers = [["cba", 384, [3, 1], 1, "same", "ReLU"]]
//	  }
//	}
//
// A table may be split across files in a directory; every name must be
// defined exactly once across all of them.
package hcl
