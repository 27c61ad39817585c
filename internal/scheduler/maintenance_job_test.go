package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/snapshots"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaintenanceJob(t *testing.T, retentionDays int) (*MaintenanceJob, *snapshots.Repository) {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "snapshots.db"),
		Name: "snapshots",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := snapshots.NewRepository(db, zerolog.Nop())
	require.NoError(t, err)

	return NewMaintenanceJob(retentionDays, repo, db, zerolog.Nop()), repo
}

func TestMaintenanceJob_PrunesExpiredSnapshots(t *testing.T) {
	job, repo := testMaintenanceJob(t, 30)
	now := time.Now().UTC()

	_, err := repo.Save(snapshots.Record{Symbol: "AAPL", CreatedAt: now.AddDate(0, 0, -60)})
	require.NoError(t, err)
	_, err = repo.Save(snapshots.Record{Symbol: "AAPL", CreatedAt: now.AddDate(0, 0, -1)})
	require.NoError(t, err)

	require.NoError(t, job.Run())

	records, err := repo.History("AAPL", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.WithinDuration(t, now.AddDate(0, 0, -1), records[0].CreatedAt, time.Minute)
}

func TestMaintenanceJob_KeepsSnapshotsWithinRetention(t *testing.T) {
	job, repo := testMaintenanceJob(t, 30)

	_, err := repo.Save(snapshots.Record{Symbol: "AAPL"})
	require.NoError(t, err)

	require.NoError(t, job.Run())

	_, err = repo.Latest("AAPL")
	assert.NoError(t, err)
}

func TestMaintenanceJob_DefaultRetention(t *testing.T) {
	job, _ := testMaintenanceJob(t, 0)
	assert.Equal(t, 365, job.retentionDays)
}

func TestMaintenanceJob_Name(t *testing.T) {
	job, _ := testMaintenanceJob(t, 30)
	assert.Equal(t, "snapshot_maintenance", job.Name())
}
