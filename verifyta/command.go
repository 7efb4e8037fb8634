// Package verifyta invokes the UPPAAL verifyta engine as a black-box
// checker process and parses its output. Verification semantics live
// entirely in the engine; this package only handles invocation, timeout
// termination and structural capture of the output.
package verifyta

import (
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// DefaultBinary is the verifyta executable resolved from PATH when the
// experiment config does not name one.
const DefaultBinary = "verifyta"

// Options describe a single verifyta invocation.
type Options struct {
	Binary    string
	Seed      int
	ModelPath string
	QueryPath string
}

// BuildArgs builds the verifyta argument list.
func BuildArgs(opts Options) []string {
	var args []string
	if opts.Seed != 0 {
		args = append(args, "--seed", strconv.Itoa(opts.Seed))
	}
	args = append(args, opts.ModelPath, opts.QueryPath)
	return args
}

// BuildCommandLine renders the invocation as a shell-escaped string for
// log output.
func BuildCommandLine(opts Options) string {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	parts := []string{binary}
	for _, arg := range BuildArgs(opts) {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}
