package main

import (
	"bytes"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newsharvest/archive"
	"github.com/pevans/newsharvest/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *orchestrator.Report {
	now := time.Now().UTC()
	return &orchestrator.Report{
		RunID:      uuid.New(),
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	}
}

func TestArchiveRun_Saves(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archive.db")
	report := testReport()
	var logs bytes.Buffer

	assert.True(t, archiveRun(dsn, report, log.New(&logs, "", 0)))
	assert.Contains(t, logs.String(), "INFO: Archived run "+report.RunID.String())

	store, err := archive.NewStore(dsn)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.GetRun(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, run.RunID)
}

// TestArchiveRun_FailureLogged verifies an unusable archive is logged as an
// error rather than failing the scrape
func TestArchiveRun_FailureLogged(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "missing", "archive.db")
	report := testReport()
	var logs bytes.Buffer

	assert.False(t, archiveRun(dsn, report, log.New(&logs, "", 0)))
	assert.Contains(t, logs.String(), "ERROR: Failed to archive run "+report.RunID.String())
}
