package scheduler

import (
	"fmt"
	"time"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// MaintenanceJob prunes analytics snapshots older than the retention window
// and checkpoints the WAL afterwards to keep the database file compact.
type MaintenanceJob struct {
	retentionDays int
	repo          *snapshots.Repository
	db            *database.DB
	log           zerolog.Logger
}

// NewMaintenanceJob creates the snapshot maintenance job. A retentionDays of
// zero or less selects the 365-day default.
func NewMaintenanceJob(retentionDays int, repo *snapshots.Repository, db *database.DB, log zerolog.Logger) *MaintenanceJob {
	if retentionDays <= 0 {
		retentionDays = 365
	}
	return &MaintenanceJob{
		retentionDays: retentionDays,
		repo:          repo,
		db:            db,
		log:           log.With().Str("job", "snapshot_maintenance").Logger(),
	}
}

// Name returns the job identifier
func (j *MaintenanceJob) Name() string { return "snapshot_maintenance" }

// Run deletes snapshots past retention, then runs a truncating WAL checkpoint.
// A failed checkpoint is logged but does not fail the job.
func (j *MaintenanceJob) Run() error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.repo.PruneBefore(cutoff)
	if err != nil {
		return fmt.Errorf("snapshot maintenance: %w", err)
	}

	if err := j.db.WALCheckpoint(""); err != nil {
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	j.log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Snapshot maintenance completed")

	return nil
}
