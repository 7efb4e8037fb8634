// Package dataset persists experiment results as an append-only JSON Lines
// file plus raw output blobs. The dataset is the single source of truth for
// resumability: the identity index loaded here decides which tasks the
// scheduler skips.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

// FileName is the dataset file inside the experiment data directory.
const FileName = "out.jsonl"

// RunMeta is appended once per run so the dataset records which invocations
// produced its rows.
type RunMeta struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Model     string    `json:"model,omitempty"`
	Queries   string    `json:"queries,omitempty"`
	Force     bool      `json:"force,omitempty"`
}

// row is the on-disk envelope: exactly one of Meta or Result is set.
type row struct {
	Kind   string             `json:"kind"`
	Meta   *RunMeta           `json:"meta,omitempty"`
	Result *experiment.Result `json:"result,omitempty"`
}

const (
	kindMeta   = "meta"
	kindResult = "result"
)

// DuplicateResultError reports a merge for an identity that already has a
// stored outcome. Recoverable: the caller skips the result unless force
// mode re-runs it deliberately.
type DuplicateResultError struct {
	Identity string
}

func (e *DuplicateResultError) Error() string {
	return fmt.Sprintf("result for task %s already recorded", e.Identity)
}

// Dataset is the in-memory view of one experiment's persisted results: the
// data directory and the index of known identities. Scheduler workers read
// the index concurrently with aggregator merges, so access goes through a
// read-write lock; only the Appender writes.
type Dataset struct {
	dir  string
	path string

	mu    sync.RWMutex
	known map[string]struct{}
}

// Dir returns the experiment data directory.
func (d *Dataset) Dir() string { return d.dir }

// Known reports whether a task identity already has a recorded outcome.
func (d *Dataset) Known(identity string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.known[identity]
	return ok
}

// Count returns the number of known identities.
func (d *Dataset) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.known)
}

func (d *Dataset) markKnown(identity string) {
	d.mu.Lock()
	d.known[identity] = struct{}{}
	d.mu.Unlock()
}

// Load builds the identity index from the dataset file in dir. A missing
// file yields an empty dataset. Rows are decoded only far enough to read
// the identity; a torn row (crash artifact) is skipped with a warning so a
// reader after a crash sees every fully merged row.
func Load(logger zerolog.Logger, dir string) (*Dataset, error) {
	d := &Dataset{
		dir:   dir,
		path:  filepath.Join(dir, FileName),
		known: make(map[string]struct{}),
	}

	f, err := os.Open(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r struct {
			Kind   string `json:"kind"`
			Result *struct {
				Identity string `json:"identity"`
			} `json:"result"`
		}
		if err := json.Unmarshal(line, &r); err != nil {
			logger.Warn().Int("line", lineNo).Err(err).Msg("Skipping unreadable dataset row")
			continue
		}
		if r.Kind == kindResult && r.Result != nil {
			d.known[r.Result.Identity] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	return d, nil
}

// LoadResults decodes the full result rows for downstream consumers such as
// plotting. When an identity appears more than once (force re-runs) the
// last row wins.
func LoadResults(logger zerolog.Logger, dir string) ([]experiment.Result, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var results []experiment.Result
	index := make(map[string]int)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r row
		if err := json.Unmarshal(line, &r); err != nil {
			logger.Warn().Int("line", lineNo).Err(err).Msg("Skipping unreadable dataset row")
			continue
		}
		if r.Kind != kindResult || r.Result == nil {
			continue
		}
		if pos, ok := index[r.Result.Identity]; ok {
			results[pos] = *r.Result
			continue
		}
		index[r.Result.Identity] = len(results)
		results = append(results, *r.Result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	return results, nil
}

// writeRaw stores a raw output blob under the dataset directory and returns
// its path relative to the directory.
func (d *Dataset) writeRaw(identity string, data []byte) (string, error) {
	rel := filepath.Join("raw", identity+".out")
	full := filepath.Join(d.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating raw output dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("writing raw output: %w", err)
	}
	return rel, nil
}
