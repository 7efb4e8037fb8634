// Package space expands a parameter space into the ordered set of concrete
// assignments that the scheduler sweeps over.
package space

import (
	"fmt"
	"sort"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/uppaal"
)

// Space maps section -> variable -> ordered candidate values.
type Space map[string]map[string][]string

// SpaceError reports a declared parameter with no corresponding entry in the
// space. Declared parameters are never silently defaulted.
type SpaceError struct {
	Section  string
	Variable string
}

func (e *SpaceError) Error() string {
	return fmt.Sprintf("declared parameter %s.%s has no values in the parameter space", e.Section, e.Variable)
}

// Values returns the candidate list for a (section, variable) pair.
func (s Space) Values(section, variable string) ([]string, bool) {
	vars, ok := s[section]
	if !ok {
		return nil, false
	}
	vals, ok := vars[variable]
	return vals, ok
}

// Assignments expands the space into the full Cartesian product over the
// declared parameters.
//
// The product order is deterministic: declarations in scanner discovery
// order, each variable's candidates in their given order, with the last
// declared variable varying fastest. Two runs over the same inputs enumerate
// assignments identically, which keeps task identities stable.
//
// Entries in the space that were not declared by the scanner are reported
// through warn and otherwise ignored; a declared parameter missing from the
// space fails with a SpaceError.
func (s Space) Assignments(decls []uppaal.Declaration, warn func(section, variable string)) ([]experiment.Assignment, error) {
	candidates := make([][]string, len(decls))
	for i, d := range decls {
		vals, ok := s.Values(d.Section, d.Variable)
		if !ok || len(vals) == 0 {
			return nil, &SpaceError{Section: d.Section, Variable: d.Variable}
		}
		candidates[i] = vals
	}

	s.warnUndeclared(decls, warn)

	if len(decls) == 0 {
		return nil, nil
	}

	total := 1
	for _, vals := range candidates {
		total *= len(vals)
	}

	assignments := make([]experiment.Assignment, 0, total)
	idx := make([]int, len(decls))
	for {
		a := make(experiment.Assignment, len(decls))
		for i, d := range decls {
			a[i] = experiment.Binding{Section: d.Section, Variable: d.Variable, Value: candidates[i][idx[i]]}
		}
		assignments = append(assignments, a)

		// Odometer increment, last position fastest.
		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(candidates[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return assignments, nil
}

func (s Space) warnUndeclared(decls []uppaal.Declaration, warn func(section, variable string)) {
	if warn == nil {
		return
	}
	declared := make(map[[2]string]bool, len(decls))
	for _, d := range decls {
		declared[[2]string{d.Section, d.Variable}] = true
	}

	sections := make([]string, 0, len(s))
	for section := range s {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	for _, section := range sections {
		vars := make([]string, 0, len(s[section]))
		for v := range s[section] {
			vars = append(vars, v)
		}
		sort.Strings(vars)
		for _, v := range vars {
			if !declared[[2]string{section, v}] {
				warn(section, v)
			}
		}
	}
}
