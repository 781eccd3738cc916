package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// statusResponse is the JSON shape served on /status.
type statusResponse struct {
	SessionID string             `json:"session_id"`
	Uptime    string             `json:"uptime"`
	Patch     string             `json:"patch,omitempty"`
	Modules   []string           `json:"modules,omitempty"`
	Levels    map[string]float32 `json:"levels,omitempty"`
}

// healthHandler reports liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler reports the running session: loaded patch, its module
// instances, and per-channel peak levels.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		SessionID: a.sessionID,
		Uptime:    time.Since(a.startedAt).Round(time.Millisecond).String(),
	}
	if a.built != nil {
		resp.Patch = a.built.Patch.Name
		resp.Modules = a.built.Graph.Names()
		resp.Levels = a.built.Mixer.Levels()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Error("Failed to encode status response", "error", err)
	}
}

// startStatusServer runs the status HTTP server in the background.
func (a *App) startStatusServer(port int) {
	a.logger.Debug("Configuring status server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/status", a.statusHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Status server failed", "error", err)
		}
	}()
}
