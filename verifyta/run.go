package verifyta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes verifyta against variant models. One Runner is shared by
// all scheduler workers; every invocation gets its own temp files.
type Runner struct {
	logger  zerolog.Logger
	binary  string
	seed    int
	workDir string
}

// NewRunner creates a runner. workDir receives the per-invocation variant
// model and query files; an empty workDir uses the system temp directory.
func NewRunner(logger zerolog.Logger, binary string, seed int, workDir string) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{logger: logger, binary: binary, seed: seed, workDir: workDir}
}

// Invocation is the raw outcome of one verifyta process.
type Invocation struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	TimedOut bool
	// Err is set when the process could not be started or failed outside
	// of a plain non-zero exit.
	Err error
}

// Run writes the variant model and the query to temp files and executes
// verifyta. Cancellation of ctx forcibly terminates the process; if the
// context carried a deadline the invocation is marked timed out.
func (r *Runner) Run(ctx context.Context, model []byte, query string) Invocation {
	modelFile, err := writeTemp(r.workDir, "variant_*.xml", model)
	if err != nil {
		return Invocation{Err: fmt.Errorf("writing variant model: %w", err)}
	}
	defer os.Remove(modelFile)

	queryFile, err := writeTemp(r.workDir, "query_*.q", []byte(query+"\n"))
	if err != nil {
		return Invocation{Err: fmt.Errorf("writing query: %w", err)}
	}
	defer os.Remove(queryFile)

	opts := Options{Binary: r.binary, Seed: r.seed, ModelPath: modelFile, QueryPath: queryFile}
	r.logger.Debug().Str("cmd", BuildCommandLine(opts)).Msg("Invoking verifyta")

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, BuildArgs(opts)...)
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := time.Now()
	runErr := cmd.Run()
	inv := Invocation{
		Stdout:   stdoutBuf.Bytes(),
		Stderr:   stderrBuf.Bytes(),
		Duration: time.Since(start),
	}

	if runErr != nil {
		// Checked only on failure: a process that exits cleanly right
		// before the deadline is still a success.
		if ctx.Err() == context.DeadlineExceeded {
			inv.TimedOut = true
			return inv
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			inv.ExitCode = exitErr.ExitCode()
		} else {
			inv.Err = runErr
		}
	}

	return inv
}

func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
