package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testConfig = `
model           = "superdense.xml"
queries         = "superdense.q"
experiment_data = "out/"
threads         = 9
seed            = 428094
timeout         = "90s"

vars "project" {
  Bitstuffing = range(0, 9)
  TIMESLOT    = range(5, 75, 5)
  T1          = 20
  T2          = "18"
  sds         = [0.01, 0.02]
}

vars "system" {
  sender = "SenderTimeslotted(qbit, X0, Z0, H0, CNOT, One, Zero, Generate)"
}

plot "errors_per_qubit" {
  section  = "project"
  variable = "Bitstuffing"
  query    = 0

  filter {
    section  = "project"
    variable = "TIMESLOT"
    value    = "40"
  }
}
`

func TestDecode(t *testing.T) {
	exp, err := Decode("test.hcl", []byte(testConfig))
	require.NoError(t, err)

	require.Equal(t, "superdense.xml", exp.Model)
	require.Equal(t, "superdense.q", exp.Queries)
	require.Equal(t, "out/", exp.ExperimentData)
	require.Equal(t, 9, exp.Threads)
	require.Equal(t, 428094, exp.Seed)
	require.Equal(t, 90*time.Second, exp.Timeout)
	require.False(t, exp.Force)

	require.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}, exp.Vars["project"]["Bitstuffing"])
	require.Equal(t, []string{"5", "10", "15", "20", "25", "30", "35", "40", "45", "50", "55", "60", "65", "70"}, exp.Vars["project"]["TIMESLOT"])
	require.Equal(t, []string{"20"}, exp.Vars["project"]["T1"])
	require.Equal(t, []string{"18"}, exp.Vars["project"]["T2"])
	require.Equal(t, []string{"0.01", "0.02"}, exp.Vars["project"]["sds"])

	// Template instantiations with commas stay one candidate.
	require.Equal(t,
		[]string{"SenderTimeslotted(qbit, X0, Z0, H0, CNOT, One, Zero, Generate)"},
		exp.Vars["system"]["sender"])

	require.Len(t, exp.Plots, 1)
	p := exp.Plots[0]
	require.Equal(t, "errors_per_qubit", p.Name)
	require.Equal(t, "project", p.Section)
	require.Equal(t, "Bitstuffing", p.Variable)
	require.Equal(t, 0, p.Query)
	require.Equal(t, []Filter{{Section: "project", Variable: "TIMESLOT", Value: "40"}}, p.Filters)
}

func TestDecode_Defaults(t *testing.T) {
	exp, err := Decode("test.hcl", []byte(`model = "m.xml"`))
	require.NoError(t, err)
	require.Equal(t, 1, exp.Threads)
	require.Zero(t, exp.Timeout)
	require.Empty(t, exp.Vars)
}

func TestDecode_StringRangeExpression(t *testing.T) {
	exp, err := Decode("test.hcl", []byte(`
vars "project" {
  x = "range(0, 3)"
}
`))
	require.NoError(t, err)
	require.Equal(t, []string{"0", "1", "2"}, exp.Vars["project"]["x"])
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("test.hcl", []byte(`model = `))
	require.Error(t, err)

	_, err = Decode("test.hcl", []byte(`timeout = "not-a-duration"`))
	require.Error(t, err)

	_, err = Decode("test.hcl", []byte(`
vars "project" {
  x = range(3, 0, 0)
}
`))
	require.Error(t, err)
}
