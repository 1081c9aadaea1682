// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package testutil holds helpers shared by the test suites: a goroutine-safe
// log buffer and small table fixtures written to temporary directories.
package testutil
