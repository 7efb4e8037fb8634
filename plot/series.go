// Package plot turns dataset rows into plot-ready data series. Rendering is
// left to downstream tooling; this package only performs the structural
// grouping of trace endpoints over an assignment variable.
package plot

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/config"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

// Point is one x position of a series with every observed trace endpoint at
// that position.
type Point struct {
	X      string
	Values []float64
	Mean   float64
	Min    float64
	Max    float64
}

// Series is one exported data series.
type Series struct {
	Name   string
	XLabel string
	Points []Point
}

// Build groups the last value of every trace of the selected query by the
// plot's x variable. Only successful rows participate; rows not matching
// the plot filters are skipped.
func Build(results []experiment.Result, p config.Plot) (Series, error) {
	if len(results) == 0 {
		return Series{}, fmt.Errorf("no experiment data available")
	}

	grouped := make(map[string][]float64)
	for _, res := range results {
		if res.Status != experiment.StatusSuccess || res.Query.ID != p.Query {
			continue
		}
		if !matchesFilters(res.Assignment, p.Filters) {
			continue
		}
		x, ok := res.Assignment.Value(p.Section, p.Variable)
		if !ok {
			continue
		}
		for _, f := range res.Formulas {
			names := make([]string, 0, len(f.Traces))
			for name := range f.Traces {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				points := f.Traces[name]
				if len(points) == 0 {
					continue
				}
				grouped[x] = append(grouped[x], points[len(points)-1].V)
			}
		}
	}

	series := Series{
		Name:   p.Name,
		XLabel: p.Section + "." + p.Variable,
	}
	for x, values := range grouped {
		series.Points = append(series.Points, summarize(x, values))
	}
	sortPoints(series.Points)

	return series, nil
}

func matchesFilters(a experiment.Assignment, filters []config.Filter) bool {
	for _, f := range filters {
		v, ok := a.Value(f.Section, f.Variable)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

func summarize(x string, values []float64) Point {
	p := Point{X: x, Values: values, Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < p.Min {
			p.Min = v
		}
		if v > p.Max {
			p.Max = v
		}
	}
	p.Mean = sum / float64(len(values))
	return p
}

// sortPoints orders numerically when every x parses as a number, otherwise
// lexicographically.
func sortPoints(points []Point) {
	numeric := true
	for _, p := range points {
		if _, err := strconv.ParseFloat(p.X, 64); err != nil {
			numeric = false
			break
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(points[i].X, 64)
			b, _ := strconv.ParseFloat(points[j].X, 64)
			return a < b
		}
		return points[i].X < points[j].X
	})
}
