// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package cli is responsible for parsing command-line arguments and
// environment defaults, validating user input, and handling process-level
// concerns like exit codes. It translates them into app.Config.
package cli
