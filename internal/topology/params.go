// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"fmt"

	"github.com/vk/topogrid/grammar"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

type convArgs struct {
	filters    int
	kernel     [2]int
	strides    [2]int
	padding    string
	activation string
}

type poolArgs struct {
	pool    [2]int
	strides [2]int
	padding string
}

// arity reports a parameter count outside [minN, maxN].
func arity(in grammar.Instruction, minN, maxN int) error {
	n := len(in.Params)
	if n >= minN && n <= maxN {
		return nil
	}
	if minN == maxN {
		return fmt.Errorf("%q takes %d parameters, got %d", in.Tag, minN, n)
	}
	return fmt.Errorf("%q takes %d to %d parameters, got %d", in.Tag, minN, maxN, n)
}

func decodeConv(in grammar.Instruction) (convArgs, error) {
	var args convArgs
	if err := arity(in, 5, 5); err != nil {
		return args, err
	}
	var err error
	if args.filters, err = intParam(in.Params[0], "filters"); err != nil {
		return args, err
	}
	if args.kernel, err = pairParam(in.Params[1], "kernel"); err != nil {
		return args, err
	}
	if args.strides, err = pairParam(in.Params[2], "strides"); err != nil {
		return args, err
	}
	if args.padding, err = stringParam(in.Params[3], "padding"); err != nil {
		return args, err
	}
	if args.activation, err = stringParam(in.Params[4], "activation"); err != nil {
		return args, err
	}
	return args, nil
}

func decodePool(in grammar.Instruction) (poolArgs, error) {
	var args poolArgs
	if err := arity(in, 3, 3); err != nil {
		return args, err
	}
	var err error
	if args.pool, err = pairParam(in.Params[0], "pool size"); err != nil {
		return args, err
	}
	if args.strides, err = pairParam(in.Params[1], "strides"); err != nil {
		return args, err
	}
	if args.padding, err = stringParam(in.Params[2], "padding"); err != nil {
		return args, err
	}
	return args, nil
}

// decodeActivation returns the activation name. An optional second parameter
// holds activation options and is ignored.
func decodeActivation(in grammar.Instruction) (string, error) {
	if err := arity(in, 1, 2); err != nil {
		return "", err
	}
	return stringParam(in.Params[0], "activation")
}

func decodeDense(in grammar.Instruction) (int, error) {
	if err := arity(in, 1, 1); err != nil {
		return 0, err
	}
	return intParam(in.Params[0], "units")
}

// decodeFlatten returns the optional expected feature count, 0 when absent.
func decodeFlatten(in grammar.Instruction) (int, error) {
	if err := arity(in, 0, 1); err != nil {
		return 0, err
	}
	if len(in.Params) == 0 {
		return 0, nil
	}
	return intParam(in.Params[0], "features")
}

func decodeNone(in grammar.Instruction) error {
	return arity(in, 0, 0)
}

// decodeParams validates a primitive's parameters without building anything.
func decodeParams(in grammar.Instruction) error {
	var err error
	switch in.Kind() {
	case grammar.KindActivation:
		_, err = decodeActivation(in)
	case grammar.KindAvgPool, grammar.KindMaxPool:
		_, err = decodePool(in)
	case grammar.KindConvBNAct, grammar.KindConvTransposeBNAct:
		_, err = decodeConv(in)
	case grammar.KindDense:
		_, err = decodeDense(in)
	case grammar.KindFlatten:
		_, err = decodeFlatten(in)
	case grammar.KindGlobalAvgPool:
		err = decodeNone(in)
	}
	return err
}

func known(v cty.Value, what string) error {
	if v == cty.NilVal || v.IsNull() {
		return fmt.Errorf("%s is null", what)
	}
	if !v.IsWhollyKnown() {
		return fmt.Errorf("%s is unknown", what)
	}
	return nil
}

func intParam(v cty.Value, what string) (int, error) {
	if err := known(v, what); err != nil {
		return 0, err
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %s", what, v.Type().FriendlyName())
	}
	var n int
	if err := gocty.FromCtyValue(nv, &n); err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %w", what, err)
	}
	return n, nil
}

// pairParam reads a square size (3) or an explicit (height, width) pair.
func pairParam(v cty.Value, what string) ([2]int, error) {
	if err := known(v, what); err != nil {
		return [2]int{}, err
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		n, err := intParam(v, what)
		return [2]int{n, n}, err
	}
	if v.LengthInt() != 2 {
		return [2]int{}, fmt.Errorf("%s must have 2 elements, got %d", what, v.LengthInt())
	}
	var pair [2]int
	for i := 0; i < 2; i++ {
		n, err := intParam(v.Index(cty.NumberIntVal(int64(i))), what)
		if err != nil {
			return [2]int{}, err
		}
		pair[i] = n
	}
	return pair, nil
}

func stringParam(v cty.Value, what string) (string, error) {
	if err := known(v, what); err != nil {
		return "", err
	}
	if v.Type() != cty.String {
		return "", fmt.Errorf("%s must be a string, got %s", what, v.Type().FriendlyName())
	}
	return v.AsString(), nil
}
