// Package config loads the HCL experiment file that drives a run: model and
// query paths, execution options, the parameter space and plot definitions.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/space"
)

// Experiment is a fully decoded experiment configuration.
type Experiment struct {
	Model          string
	Queries        string
	ExperimentData string
	Threads        int
	Seed           int
	Timeout        time.Duration
	Force          bool
	Verifyta       string
	Vars           space.Space
	Plots          []Plot
}

// Plot selects which assignment variable spans the x axis of an exported
// data series and which query's traces feed it.
type Plot struct {
	Name     string
	Section  string
	Variable string
	Query    int
	Filters  []Filter
}

// Filter restricts a plot to rows whose assignment carries a fixed value.
type Filter struct {
	Section  string
	Variable string
	Value    string
}

type fileConfig struct {
	Model          string      `hcl:"model,optional"`
	Queries        string      `hcl:"queries,optional"`
	ExperimentData string      `hcl:"experiment_data,optional"`
	Threads        int         `hcl:"threads,optional"`
	Seed           int         `hcl:"seed,optional"`
	Timeout        string      `hcl:"timeout,optional"`
	Force          bool        `hcl:"force,optional"`
	Verifyta       string      `hcl:"verifyta,optional"`
	Vars           []varsBlock `hcl:"vars,block"`
	Plots          []plotBlock `hcl:"plot,block"`
}

type varsBlock struct {
	Section string   `hcl:"section,label"`
	Body    hcl.Body `hcl:",remain"`
}

type plotBlock struct {
	Name     string        `hcl:"name,label"`
	Section  string        `hcl:"section"`
	Variable string        `hcl:"variable"`
	Query    int           `hcl:"query,optional"`
	Filters  []filterBlock `hcl:"filter,block"`
}

type filterBlock struct {
	Section  string `hcl:"section"`
	Variable string `hcl:"variable"`
	Value    string `hcl:"value"`
}

// Load reads and decodes an experiment file.
func Load(path string) (*Experiment, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Decode(path, src)
}

// Decode decodes experiment HCL source. The filename is used in
// diagnostics only.
func Decode(filename string, src []byte) (*Experiment, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Functions: map[string]function.Function{
			"range": rangeFunc,
		},
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}

	exp := &Experiment{
		Model:          fc.Model,
		Queries:        fc.Queries,
		ExperimentData: fc.ExperimentData,
		Threads:        fc.Threads,
		Seed:           fc.Seed,
		Force:          fc.Force,
		Verifyta:       fc.Verifyta,
		Vars:           make(space.Space),
	}
	if exp.Threads < 1 {
		exp.Threads = 1
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		exp.Timeout = timeout
	}

	for _, vb := range fc.Vars {
		attrs, diags := vb.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("vars %q: %s", vb.Section, diags.Error())
		}
		section := exp.Vars[vb.Section]
		if section == nil {
			section = make(map[string][]string)
			exp.Vars[vb.Section] = section
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("vars %q.%s: %s", vb.Section, name, diags.Error())
			}
			vals, err := candidateValues(val)
			if err != nil {
				return nil, fmt.Errorf("vars %q.%s: %w", vb.Section, name, err)
			}
			section[name] = vals
		}
	}

	for _, pb := range fc.Plots {
		p := Plot{
			Name:     pb.Name,
			Section:  pb.Section,
			Variable: pb.Variable,
			Query:    pb.Query,
		}
		for _, f := range pb.Filters {
			p.Filters = append(p.Filters, Filter(f))
		}
		exp.Plots = append(exp.Plots, p)
	}

	return exp, nil
}

// candidateValues turns a decoded HCL value into an ordered candidate list.
// Lists and tuples contribute one candidate per element; scalar strings go
// through space.ParseValues so textual range(...)/list(...) expressions from
// get-params templates keep working; other scalars are single candidates.
func candidateValues(val cty.Value) ([]string, error) {
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		var vals []string
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			s, err := valueString(ev)
			if err != nil {
				return nil, err
			}
			vals = append(vals, s)
		}
		return vals, nil
	}

	s, err := valueString(val)
	if err != nil {
		return nil, err
	}
	if val.Type() == cty.String {
		return space.ParseValues(s), nil
	}
	return []string{s}, nil
}

func valueString(val cty.Value) (string, error) {
	conv, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("value not convertible to string: %w", err)
	}
	if conv.IsNull() {
		return "", fmt.Errorf("null value")
	}
	return conv.AsString(), nil
}
