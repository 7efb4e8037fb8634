package verifyta

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// writeScript stands in for the verifyta binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub")
	}
	path := filepath.Join(t.TempDir(), "fake-verifyta")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRun_DeadlineTerminatesProcess(t *testing.T) {
	binary := writeScript(t, "sleep 10\n")
	r := NewRunner(zerolog.Nop(), binary, 0, t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	inv := r.Run(ctx, []byte("<nta/>"), "A[] not deadlock")
	require.True(t, inv.TimedOut)
	require.Less(t, time.Since(start), 5*time.Second)
}

// expiredErrContext reports an exceeded deadline without ever signalling
// Done, reproducing the window where the deadline fires between process
// exit and outcome classification.
type expiredErrContext struct {
	context.Context
}

func (expiredErrContext) Err() error { return context.DeadlineExceeded }

func TestRun_CleanExitNearDeadlineIsNotTimeout(t *testing.T) {
	binary := writeScript(t, "echo 'Verifying formula 1'\n")
	r := NewRunner(zerolog.Nop(), binary, 0, t.TempDir())

	inv := r.Run(expiredErrContext{context.Background()}, []byte("<nta/>"), "A[] not deadlock")
	require.False(t, inv.TimedOut)
	require.NoError(t, inv.Err)
	require.Equal(t, 0, inv.ExitCode)
	require.Contains(t, string(inv.Stdout), "Verifying formula 1")
}
