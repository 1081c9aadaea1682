// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the format-agnostic interfaces (Loader, Encoder)
// for reading and writing topology tables, and a Registry that picks the
// right format for each file by its extension.
//
// Concrete formats, such as HCL and YAML, are provided in separate packages
// and registered by the application.
package config
