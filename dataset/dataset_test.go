package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

func testResult(id string, status experiment.Status) experiment.Result {
	return experiment.Result{
		Identity: id,
		Assignment: experiment.Assignment{
			{Section: "project", Variable: "x", Value: "1"},
		},
		Query:      experiment.Query{ID: 0, Text: "E<> done"},
		Status:     status,
		DurationMS: 12,
	}
}

func TestMergeAndLoad(t *testing.T) {
	dir := t.TempDir()

	ds, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)
	require.Equal(t, 0, ds.Count())

	app, err := ds.OpenAppender(false)
	require.NoError(t, err)
	require.NoError(t, app.WriteMeta(RunMeta{RunID: uuid.NewString(), StartedAt: time.Now()}))
	require.NoError(t, app.Merge(testResult("aaa", experiment.StatusSuccess)))
	require.NoError(t, app.Merge(testResult("bbb", experiment.StatusEngineError)))
	require.NoError(t, app.Close())

	require.True(t, ds.Known("aaa"))
	require.False(t, ds.Known("ccc"))

	reloaded, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Count())
	require.True(t, reloaded.Known("aaa"))
	require.True(t, reloaded.Known("bbb"))
}

func TestMerge_Duplicate(t *testing.T) {
	dir := t.TempDir()
	ds, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)

	app, err := ds.OpenAppender(false)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Merge(testResult("aaa", experiment.StatusSuccess)))

	err = app.Merge(testResult("aaa", experiment.StatusSuccess))
	var dup *DuplicateResultError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "aaa", dup.Identity)
}

func TestMerge_ForceSupersedes(t *testing.T) {
	dir := t.TempDir()
	ds, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)

	app, err := ds.OpenAppender(true)
	require.NoError(t, err)
	require.NoError(t, app.Merge(testResult("aaa", experiment.StatusEngineError)))
	require.NoError(t, app.Merge(testResult("aaa", experiment.StatusSuccess)))
	require.NoError(t, app.Close())

	results, err := LoadResults(zerolog.Nop(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, experiment.StatusSuccess, results[0].Status)
}

func TestMerge_WritesRawOutput(t *testing.T) {
	dir := t.TempDir()
	ds, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)

	app, err := ds.OpenAppender(false)
	require.NoError(t, err)
	defer app.Close()

	res := testResult("aaa", experiment.StatusSuccess)
	res.Raw = []byte("Verifying formula 1\n")
	require.NoError(t, app.Merge(res))

	results, err := LoadResults(zerolog.Nop(), dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join("raw", "aaa.out"), results[0].OutputFile)

	data, err := os.ReadFile(filepath.Join(dir, results[0].OutputFile))
	require.NoError(t, err)
	require.Equal(t, "Verifying formula 1\n", string(data))
}

func TestLoad_TornFinalRow(t *testing.T) {
	dir := t.TempDir()
	ds, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)

	app, err := ds.OpenAppender(false)
	require.NoError(t, err)
	require.NoError(t, app.Merge(testResult("aaa", experiment.StatusSuccess)))
	require.NoError(t, app.Close())

	// Simulate a crash mid-append.
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"kind":"result","result":{"ident`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reloaded, err := Load(zerolog.Nop(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Count())
	require.True(t, reloaded.Known("aaa"))
}

func TestLoadResults_MissingFile(t *testing.T) {
	_, err := LoadResults(zerolog.Nop(), t.TempDir())
	require.Error(t, err)
}
