package experiment

import "sort"

// Binding assigns one concrete value to a single model variable.
type Binding struct {
	Section  string `json:"section"`
	Variable string `json:"variable"`
	Value    string `json:"value"`
}

// Assignment is one point of the expanded parameter space: exactly one
// value per declared variable, in the order the variables were discovered.
type Assignment []Binding

// Value returns the assigned value for a (section, variable) pair.
func (a Assignment) Value(section, variable string) (string, bool) {
	for _, b := range a {
		if b.Section == section && b.Variable == variable {
			return b.Value, true
		}
	}
	return "", false
}

// Canonical returns a copy of the assignment sorted by (section, variable,
// value). Identity hashing operates on this form so the hash does not depend
// on discovery order.
func (a Assignment) Canonical() Assignment {
	cp := make(Assignment, len(a))
	copy(cp, a)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].Section != cp[j].Section {
			return cp[i].Section < cp[j].Section
		}
		if cp[i].Variable != cp[j].Variable {
			return cp[i].Variable < cp[j].Variable
		}
		return cp[i].Value < cp[j].Value
	})
	return cp
}

// Query is a single verification query. The ID is the query's ordinal
// position in the query file and is stable across runs of the same file.
type Query struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Task pairs one assignment with one query. Its identity is the join key
// used for resumability and result deduplication.
type Task struct {
	Assignment Assignment
	Query      Query
	Identity   string
}

// NewTask builds a task and computes its identity.
func NewTask(a Assignment, q Query) Task {
	return Task{Assignment: a, Query: q, Identity: Identity(a, q)}
}
