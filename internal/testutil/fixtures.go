// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

// SmallTableHCL is a two-module table. On a (32, 32, 3) input it yields 11
// layers and a (16, 16, 24) output.
const SmallTableHCL = `
sequence "model" {
  layers = [
    ["cba", 16, 3, 1, "same", "ReLU"],
    ["stem"],
    ["mix"],
  ]
}

module "stem" {
  branch {
    layers = [["mp2", 2, 2, "valid"]]
  }
}

module "mix" {
  branch {
    layers = [["cba", 8, 1, 1, "same", "ReLU"]]
  }
  branch {
    layers = [["ap2", 3, 1, "same"]]
  }
}
`

// SmallTableYAML is SmallTableHCL in the YAML table format.
const SmallTableYAML = `
sequences:
  model:
    - [cba, 16, 3, 1, same, ReLU]
    - [stem]
    - [mix]
modules:
  stem:
    - - [mp2, 2, 2, valid]
  mix:
    - - [cba, 8, 1, 1, same, ReLU]
    - - [ap2, 3, 1, same]
`

// CyclicTableHCL references its own module.
const CyclicTableHCL = `
sequence "model" {
  layers = [["loop"]]
}

module "loop" {
  branch {
    layers = [["loop"]]
  }
}
`

// UnknownModuleTableHCL references a module that is never defined.
const UnknownModuleTableHCL = `
sequence "model" {
  layers = [["cba", 8, 3, 1, "same", "ReLU"], ["missing"]]
}
`
