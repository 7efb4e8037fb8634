package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// rangeFunc implements range(start, end[, step]) with a half-open interval,
// matching the range expressions used in parameter templates.
var rangeFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "start", Type: cty.Number},
		{Name: "end", Type: cty.Number},
	},
	VarParam: &function.Parameter{Name: "step", Type: cty.Number},
	Type:     function.StaticReturnType(cty.List(cty.Number)),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var start, end int
		if err := gocty.FromCtyValue(args[0], &start); err != nil {
			return cty.NilVal, err
		}
		if err := gocty.FromCtyValue(args[1], &end); err != nil {
			return cty.NilVal, err
		}
		step := 1
		if len(args) > 2 {
			if err := gocty.FromCtyValue(args[2], &step); err != nil {
				return cty.NilVal, err
			}
		}
		if step <= 0 {
			return cty.NilVal, fmt.Errorf("range step must be positive")
		}

		var vals []cty.Value
		for v := start; v < end; v += step {
			vals = append(vals, cty.NumberIntVal(int64(v)))
		}
		if len(vals) == 0 {
			return cty.ListValEmpty(cty.Number), nil
		}
		return cty.ListVal(vals), nil
	},
})
