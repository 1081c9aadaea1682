// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package grammar

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ToValue converts a Go literal into the cty value stored in an instruction.
// Supported: integers, floats, strings, bools, int slices/pairs (asymmetric
// kernels), []any of supported values, and cty.Value itself.
func ToValue(v any) (cty.Value, error) {
	switch x := v.(type) {
	case cty.Value:
		return x, nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int32:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint:
		return cty.NumberUIntVal(uint64(x)), nil
	case float32:
		return cty.NumberFloatVal(float64(x)), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case [2]int:
		return cty.TupleVal([]cty.Value{cty.NumberIntVal(int64(x[0])), cty.NumberIntVal(int64(x[1]))}), nil
	case []int:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(x))
		for i, n := range x {
			vals[i] = cty.NumberIntVal(int64(n))
		}
		return cty.TupleVal(vals), nil
	case []any:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(x))
		for i, e := range x {
			ev, err := ToValue(e)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = ev
		}
		return cty.TupleVal(vals), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported parameter type %T", v)
	}
}

// FormatValue renders a parameter the way it is written in a table:
// numbers bare, strings quoted, tuples in parentheses.
func FormatValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "null"
	}
	if !v.IsKnown() {
		return "?"
	}
	ty := v.Type()
	switch {
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case ty == cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case ty == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case ty.IsTupleType() || ty.IsListType():
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			parts = append(parts, FormatValue(ev))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return ty.FriendlyName()
	}
}
