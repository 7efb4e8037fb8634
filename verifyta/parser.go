package verifyta

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

// Parser parses verifyta stdout into per-formula verdicts and trace data.
type Parser struct {
	formulas []experiment.FormulaResult
	current  int
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{current: -1}
}

var (
	verifyingRe = regexp.MustCompile(`Verifying formula (\d+)`)
	pointRe     = regexp.MustCompile(`\(([^,]+),\s*([^)]+)\)`)
)

// Output is the structured form of one verifyta invocation's stdout.
type Output struct {
	Formulas []experiment.FormulaResult
}

// Parse reads verifyta output line by line. Recognized lines:
//
//	Verifying formula N ...          opens formula N
//	 -- Formula is satisfied         verdict for the open formula
//	 -- Formula is not satisfied
//	[N] name: (t,v) (t,v) ...        trace samples for the open formula
//
// Trace data appearing before any formula is a structural error; everything
// else is passed over, since verifyta interleaves progress and license
// chatter with the lines above.
func (p *Parser) Parse(reader io.Reader) (*Output, error) {
	scanner := bufio.NewScanner(reader)
	// Trace lines hold full simulation runs and can get long.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "["):
			if err := p.addTrace(line); err != nil {
				return nil, err
			}

		case strings.Contains(line, "Verifying formula"):
			m := verifyingRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			index, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("invalid formula index: %s", line)
			}
			p.current = len(p.formulas)
			p.formulas = append(p.formulas, experiment.FormulaResult{Index: index})

		case strings.Contains(line, "-- Formula is not satisfied"):
			p.setVerdict(false)

		case strings.Contains(line, "-- Formula is satisfied"):
			p.setVerdict(true)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading output: %w", err)
	}

	return &Output{Formulas: p.formulas}, nil
}

func (p *Parser) setVerdict(satisfied bool) {
	if p.current < 0 {
		return
	}
	v := satisfied
	p.formulas[p.current].Satisfied = &v
}

func (p *Parser) addTrace(line string) error {
	if p.current < 0 {
		return fmt.Errorf("trace data before any formula: %q", line)
	}

	name, rest, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("invalid trace line: %q", line)
	}
	name = strings.TrimSpace(name)

	var points []experiment.Point
	for _, m := range pointRe.FindAllStringSubmatch(rest, -1) {
		t, errT := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
		v, errV := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
		if errT != nil || errV != nil {
			continue
		}
		points = append(points, experiment.Point{T: t, V: v})
	}
	if len(points) == 0 {
		return nil
	}

	f := &p.formulas[p.current]
	if f.Traces == nil {
		f.Traces = make(map[string][]experiment.Point)
	}
	f.Traces[name] = append(f.Traces[name], points...)
	return nil
}
