package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

// Appender is the dataset's single writer. All merges are funneled through
// it, each row is written with one append and synced before Merge returns,
// so a crash loses at most the in-flight row and never tears a stored one.
type Appender struct {
	mu    sync.Mutex
	ds    *Dataset
	f     *os.File
	force bool
}

// OpenAppender opens the dataset file for appending, creating the data
// directory as needed. With force set, merges for already-known identities
// supersede the stored row instead of failing.
func (d *Dataset) OpenAppender(force bool) (*Appender, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating experiment data dir: %w", err)
	}
	f, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening dataset for append: %w", err)
	}
	return &Appender{ds: d, f: f, force: force}, nil
}

// WriteMeta appends a run metadata row.
func (a *Appender) WriteMeta(meta RunMeta) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.appendRow(row{Kind: kindMeta, Meta: &meta})
}

// Merge appends one result row. The raw output blob, if any, is written
// first so the row never references a missing file. A known identity yields
// DuplicateResultError unless force mode is on; the identity index is
// updated only after the row is durably on disk.
func (a *Appender) Merge(res experiment.Result) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ds.Known(res.Identity) && !a.force {
		return &DuplicateResultError{Identity: res.Identity}
	}

	if len(res.Raw) > 0 {
		ref, err := a.ds.writeRaw(res.Identity, res.Raw)
		if err != nil {
			return err
		}
		res.OutputFile = ref
	}

	if err := a.appendRow(row{Kind: kindResult, Result: &res}); err != nil {
		return err
	}
	a.ds.markKnown(res.Identity)
	return nil
}

func (a *Appender) appendRow(r row) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding dataset row: %w", err)
	}
	data = append(data, '\n')
	if _, err := a.f.Write(data); err != nil {
		return fmt.Errorf("appending dataset row: %w", err)
	}
	if err := a.f.Sync(); err != nil {
		return fmt.Errorf("syncing dataset: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (a *Appender) Close() error {
	return a.f.Close()
}
