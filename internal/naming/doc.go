// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package naming derives deterministic layer names while the interpreter walks
a table.

A Scope carries two views of the same position:

  - the name prefix used for layers, e.g. `Inception_V3_8_1m1_1`, built with
    the `{name}_{i}` / `{name_i}_{k}{tag}` convention;
  - a trace, a dot-separated path of indexed segments such as
    `step[8].m1[1].step[1]`, used in error messages to point at the
    instruction that failed.

Names never collide inside one sequence because every instruction index and
every branch index is part of the prefix.
*/
package naming
