package uppaal

import "strings"

// Declaration is one discovered @param annotation: a model variable offered
// for parameterization, with the default value currently assigned in the
// model text.
type Declaration struct {
	Section  string
	Variable string
	Default  string
	// Line is the 1-based line number within the section text.
	Line int
}

// ScanParams extracts parameter declarations from the model's declaration
// sections in document order. A line declares a parameter when it contains
// the @param marker and assigns a value to a variable, e.g.
//
//	int TIMESLOT = 20; // @param
//
// Duplicate (section, variable) occurrences merge into the first one.
// Zero declarations is a valid outcome.
func (m *Model) ScanParams() []Declaration {
	var decls []Declaration
	seen := make(map[[2]string]bool)

	for _, sec := range m.Sections {
		for i, line := range strings.Split(sec.Text, "\n") {
			if !strings.Contains(line, "@param") {
				continue
			}
			// Only the statement before the first semicolon carries the
			// variable and its default.
			stmt, _, _ := strings.Cut(line, ";")
			lhs, rhs, ok := strings.Cut(stmt, "=")
			if !ok {
				continue
			}
			fields := strings.Fields(lhs)
			if len(fields) == 0 {
				continue
			}
			name := fields[len(fields)-1]
			key := [2]string{sec.Name, name}
			if seen[key] {
				continue
			}
			seen[key] = true
			decls = append(decls, Declaration{
				Section:  sec.Name,
				Variable: name,
				Default:  strings.TrimSpace(rhs),
				Line:     i + 1,
			})
		}
	}

	return decls
}
