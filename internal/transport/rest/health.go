package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type HealthHandler struct {
	db      *sql.DB
	started time.Time
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

type healthReport struct {
	Status   string        `json:"status"`
	Uptime   string        `json:"uptime"`
	Database databaseCheck `json:"database"`
}

type databaseCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler reports readiness, which for this service means the
// database answers a ping within two seconds.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	pingErr := h.db.PingContext(ctx)

	report := healthReport{
		Status: "healthy",
		Uptime: time.Since(h.started).Round(time.Second).String(),
		Database: databaseCheck{
			Status:  "up",
			Latency: time.Since(start).Round(time.Millisecond).String(),
		},
	}

	statusCode := http.StatusOK
	if pingErr != nil {
		report.Status = "unhealthy"
		report.Database.Status = "down"
		report.Database.Error = pingErr.Error()
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(report)
}
