package space

import (
	"regexp"
	"strconv"
	"strings"
)

var rangeRe = regexp.MustCompile(`^range\((\d+),\s*(\d+)(?:,\s*(\d+))?\)$`)

// ParseValues expands a textual value expression into a candidate list.
// Supported forms:
//
//	range(start, end[, step])  half-open integer range
//	list(a, b, c)              literal values
//	anything else              a single literal value
//
// Arbitrary text stays a single candidate, so expressions such as template
// instantiations with commas are never split apart.
func ParseValues(expr string) []string {
	expr = strings.TrimSpace(expr)

	if m := rangeRe.FindStringSubmatch(expr); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		step := 1
		if m[3] != "" {
			step, _ = strconv.Atoi(m[3])
		}
		if step <= 0 {
			return nil
		}
		var vals []string
		for v := start; v < end; v += step {
			vals = append(vals, strconv.Itoa(v))
		}
		return vals
	}

	if inner, ok := strings.CutPrefix(expr, "list("); ok && strings.HasSuffix(inner, ")") {
		inner = strings.TrimSuffix(inner, ")")
		var vals []string
		for _, v := range strings.Split(inner, ",") {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		return vals
	}

	return []string{expr}
}
