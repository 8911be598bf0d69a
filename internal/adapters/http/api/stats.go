// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider reports service counters and the loaded model identity.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider's stats plus the handler uptime.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
	now      func() time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now(), now: time.Now}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, NewKind(op, ErrMethodNotAllowed), "GET, HEAD")
		return
	}

	out := map[string]interface{}{"started": false}
	if h.provider != nil {
		maps.Copy(out, h.provider.GetStats())
	}
	out["uptimeSeconds"] = h.now().Sub(h.started).Seconds()
	writeJSON(w, http.StatusOK, out)
}
