package formula

import (
	"fmt"
	"slices"
	"strings"

	"github.com/midbel/gridcalc/value"
)

type Builtin func([]float64) (float64, error)

var registry = map[string]Builtin{
	"SUM":     execSum,
	"AVG":     execAvg,
	"AVERAGE": execAvg,
	"MIN":     execMin,
	"MAX":     execMax,
	"COUNT":   execCount,
}

func Lookup(name string) (Builtin, error) {
	fn, ok := registry[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %s", value.ErrName, name)
	}
	return withValues(fn), nil
}

// Functions returns the sorted names of the builtins.
func Functions() []string {
	var names []string
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func withValues(fn Builtin) Builtin {
	return func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("%w: function called without values", value.ErrValue)
		}
		return fn(args)
	}
}

func execSum(args []float64) (float64, error) {
	var total float64
	for i := range args {
		total += args[i]
	}
	return total, nil
}

func execAvg(args []float64) (float64, error) {
	total, _ := execSum(args)
	return total / float64(len(args)), nil
}

func execMin(args []float64) (float64, error) {
	res := args[0]
	for i := range args {
		res = min(res, args[i])
	}
	return res, nil
}

func execMax(args []float64) (float64, error) {
	res := args[0]
	for i := range args {
		res = max(res, args[i])
	}
	return res, nil
}

func execCount(args []float64) (float64, error) {
	return float64(len(args)), nil
}
