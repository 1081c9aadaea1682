// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one invocation: load a
// table, validate or export it, build the model, render the summary and
// write build metrics. It is decoupled from any entrypoint like a CLI.
package app
