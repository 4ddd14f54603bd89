package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarconv/internal"
)

func TestInsertAndListRuns(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "journal", "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.InsertRun(internal.RunRecord{TraceID: "a", Mode: "day", Status: "done", Files: 1, Rows: 10, StartedAt: "2023-06-15T10:00:00Z"}))
	require.NoError(t, db.InsertRun(internal.RunRecord{TraceID: "b", Mode: "kaco", Status: "failed", Error: "boom", StartedAt: "2023-06-15T11:00:00Z"}))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "b", runs[0].TraceID)
	assert.Equal(t, "failed", runs[0].Status)
	assert.Equal(t, "boom", runs[0].Error)
	assert.Equal(t, 10, runs[1].Rows)

	latest, err := db.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}
