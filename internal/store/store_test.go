package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arya-s-cmd/financial-forensic-engine"
)

func TestStore_SaveAndGetRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	rec := RunRecord{
		RunID: "run-1",
		Report: mulegraph.Report{
			Summary: mulegraph.Summary{TotalAccountsAnalyzed: 3},
		},
	}
	require.NoError(t, s.SaveRun(rec))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Report.Summary.TotalAccountsAnalyzed)
}

func TestStore_GetRun_NotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetRun("missing")
	assert.Error(t, err)
}

func TestStore_ListRunIDs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveRun(RunRecord{RunID: "run-a"}))
	require.NoError(t, s.SaveRun(RunRecord{RunID: "run-b"}))

	ids, err := s.ListRunIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run-a", "run-b"}, ids)
}
