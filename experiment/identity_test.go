package experiment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity_Deterministic(t *testing.T) {
	a := Assignment{
		{Section: "project", Variable: "Bitstuffing", Value: "4"},
		{Section: "project", Variable: "TIMESLOT", Value: "20"},
	}
	q := Query{ID: 0, Text: "E<> done"}

	// Independently constructed equivalent inputs must hash identically.
	b := Assignment{
		{Section: "project", Variable: "TIMESLOT", Value: "20"},
		{Section: "project", Variable: "Bitstuffing", Value: "4"},
	}

	require.Equal(t, Identity(a, q), Identity(b, q))
	require.Len(t, Identity(a, q), 64)
}

func TestIdentity_SensitiveToSingleValue(t *testing.T) {
	base := Assignment{
		{Section: "project", Variable: "x", Value: "1"},
		{Section: "project", Variable: "y", Value: "3"},
	}
	q := Query{ID: 0, Text: "A[] not deadlock"}

	changed := Assignment{
		{Section: "project", Variable: "x", Value: "1"},
		{Section: "project", Variable: "y", Value: "4"},
	}

	require.NotEqual(t, Identity(base, q), Identity(changed, q))
	require.NotEqual(t, Identity(base, q), Identity(base, Query{ID: 1, Text: "A[] not deadlock"}))
	require.NotEqual(t, Identity(base, q), Identity(base, Query{ID: 0, Text: "A[] not deadlock "}))
}

func TestIdentity_NoFieldConcatenationCollision(t *testing.T) {
	// "ab"+"c" vs "a"+"bc" must differ thanks to length prefixes.
	a := Assignment{{Section: "s", Variable: "ab", Value: "c"}}
	b := Assignment{{Section: "s", Variable: "a", Value: "bc"}}
	q := Query{ID: 0, Text: "E<> x"}

	require.NotEqual(t, Identity(a, q), Identity(b, q))
}

func TestAssignment_Canonical(t *testing.T) {
	a := Assignment{
		{Section: "system", Variable: "sender", Value: "S()"},
		{Section: "project", Variable: "T1", Value: "20"},
	}
	c := a.Canonical()

	require.Equal(t, "project", c[0].Section)
	// Original order untouched.
	require.Equal(t, "system", a[0].Section)

	v, ok := a.Value("project", "T1")
	require.True(t, ok)
	require.Equal(t, "20", v)
	_, ok = a.Value("project", "missing")
	require.False(t, ok)
}
