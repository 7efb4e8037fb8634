package verifyta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

func TestParser_Parse(t *testing.T) {
	// Example verifyta output
	output := `Options for the verification:
  Generating no trace
  Search order is breadth first
  Using conservative space optimisation
  Seed is 428094
  State space representation uses minimal constraint systems

Verifying formula 1 at /tmp/query_2887451.q:1
 -- Formula is satisfied.
[0] errors: (0,0) (20,1) (40,1) (60,2)
[0] bits: (0,0) (20,2) (40,4) (60,6)

Verifying formula 2 at /tmp/query_2887451.q:2
 -- Formula is not satisfied.
`

	parser := New()
	out, err := parser.Parse(strings.NewReader(output))
	require.NoError(t, err)

	require.Len(t, out.Formulas, 2)

	first := out.Formulas[0]
	require.Equal(t, 1, first.Index)
	require.NotNil(t, first.Satisfied)
	require.True(t, *first.Satisfied)
	require.Len(t, first.Traces, 2)
	require.Equal(t, []experiment.Point{{T: 0, V: 0}, {T: 20, V: 1}, {T: 40, V: 1}, {T: 60, V: 2}}, first.Traces["[0] errors"])
	require.Equal(t, experiment.Point{T: 60, V: 6}, first.Traces["[0] bits"][3])

	second := out.Formulas[1]
	require.Equal(t, 2, second.Index)
	require.NotNil(t, second.Satisfied)
	require.False(t, *second.Satisfied)
	require.Empty(t, second.Traces)
}

func TestParser_NoVerdict(t *testing.T) {
	out, err := New().Parse(strings.NewReader("Verifying formula 1 at q:1\n"))
	require.NoError(t, err)
	require.Len(t, out.Formulas, 1)
	require.Nil(t, out.Formulas[0].Satisfied)
}

func TestParser_EmptyOutput(t *testing.T) {
	out, err := New().Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, out.Formulas)
}

func TestParser_TraceBeforeFormula(t *testing.T) {
	_, err := New().Parse(strings.NewReader("[0] errors: (0,0) (1,1)\n"))
	require.Error(t, err)
}

func TestParser_FloatPoints(t *testing.T) {
	output := `Verifying formula 1 at q:1
[0] fidelity: (0.0,1.0) (12.5,0.875)
`
	out, err := New().Parse(strings.NewReader(output))
	require.NoError(t, err)
	require.Equal(t, []experiment.Point{{T: 0, V: 1}, {T: 12.5, V: 0.875}}, out.Formulas[0].Traces["[0] fidelity"])
}
