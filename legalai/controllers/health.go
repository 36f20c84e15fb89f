package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is anything whose reachability the readiness probe checks.
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthController struct {
	identityReady func() bool
	backend       Pinger
}

func NewHealthController(identityReady func() bool, backend Pinger) *HealthController {
	return &HealthController{identityReady: identityReady, backend: backend}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// Ready reports 200 once the identity provider keys are loaded and the
// backend answers its health check.
func (h *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"identity": "ok", "backend": "ok"}
	ready := true
	if h.identityReady != nil && !h.identityReady() {
		checks["identity"] = "loading"
		ready = false
	}
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.backend.Health(ctx); err != nil {
			checks["backend"] = err.Error()
			ready = false
		}
	}

	status := http.StatusOK
	body := map[string]interface{}{"status": "ready", "checks": checks}
	if !ready {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
