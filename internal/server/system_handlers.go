package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/scheduler"
)

// SystemHandlers handles system monitoring and job trigger endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	db          *database.DB
	scheduler   *scheduler.Scheduler
	snapshotJob scheduler.Job
	startedAt   time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, db *database.DB, sched *scheduler.Scheduler, snapshotJob scheduler.Job) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		db:          db,
		scheduler:   sched,
		snapshotJob: snapshotJob,
		startedAt:   time.Now(),
	}
}

// HandleHealth is the liveness endpoint: a quick database ping plus process
// uptime. It never blocks on the full integrity check.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.db != nil {
		if err := h.db.QuickCheck(r.Context()); err != nil {
			h.log.Error().Err(err).Msg("Database ping failed")
			status = "degraded"
		}
	}

	h.writeJSON(w, map[string]interface{}{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleSystemStatus reports CPU and memory usage alongside uptime
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := h.systemStats()

	h.writeJSON(w, map[string]interface{}{
		"cpu_percent":    cpuPct,
		"memory_percent": memPct,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleDatabaseStats reports the snapshot database file sizes and health
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		http.Error(w, "No database configured", http.StatusServiceUnavailable)
		return
	}

	stats := map[string]interface{}{
		"name": h.db.Name(),
		"path": h.db.Path(),
	}

	if info, err := os.Stat(h.db.Path()); err == nil {
		stats["size_bytes"] = info.Size()
	}
	if info, err := os.Stat(h.db.Path() + "-wal"); err == nil {
		stats["wal_size_bytes"] = info.Size()
	}

	if err := h.db.HealthCheck(r.Context()); err != nil {
		stats["healthy"] = false
		stats["error"] = err.Error()
	} else {
		stats["healthy"] = true
	}

	h.writeJSON(w, stats)
}

// HandleTriggerSnapshot runs the analytics snapshot job immediately
func (h *SystemHandlers) HandleTriggerSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshotJob == nil {
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "Snapshot job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual snapshot capture triggered")

	if err := h.scheduler.RunNow(h.snapshotJob); err != nil {
		h.log.Error().Err(err).Msg("Snapshot job failed")
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, map[string]string{"status": "ok"})
}

// systemStats samples CPU and RAM usage percentages. The CPU sample uses a
// 100ms window to keep the endpoint responsive.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
