// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package yamltable reads and writes topology tables as YAML. JSON files are
// read through the same path, JSON being a subset of YAML.
//
//	sequences:
//	  model:
//	    - [cba, 32, 3, 2, same, ReLU]
//	    - [m3a]
//	modules:
//	  m3a:
//	    - - [cba, 384, [1, 3], 1, same, ReLU]
//	    - - [cba, 384, [3, 1], 1, same, ReLU]
package yamltable
