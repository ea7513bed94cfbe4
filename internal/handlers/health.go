package handlers

import (
	"net/http"
	"runtime"
	"time"
)

var startTime = time.Now()

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	TotalAssets int    `json:"totalAssets"`
	LastScan    string `json:"lastScan,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service status. A failing index count degrades the
// status but still answers 200 so orchestrators keep the pod while the
// library recovers.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      Version,
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	total, err := h.db.TotalAssets(r.Context())
	if err != nil {
		response.Status = statusDegraded
	} else {
		response.TotalAssets = total
	}

	if last := h.indexer.LastScan(); !last.IsZero() {
		response.LastScan = last.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}
