package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"alienarena-server/server"
)

// HealthStatus represents the overall health of the simulation.
type HealthStatus string

const (
	HealthHealthy     HealthStatus = "healthy"
	HealthWarning     HealthStatus = "warning"
	HealthCritical    HealthStatus = "critical"
	HealthMaintenance HealthStatus = "maintenance"
)

// slowTickMemory is how long an over-budget tick keeps the health at warning.
const slowTickMemory = time.Minute

// StatsSource is implemented by server.Hub.
type StatsSource interface {
	Stats() server.Stats
}

// WorldMetrics counts what is currently in the arena.
type WorldMetrics struct {
	Level   string `json:"level"`
	Players int    `json:"players"`
	Aliens  int    `json:"aliens"`
	Pickups int    `json:"pickups"`
	Bullets int    `json:"bullets"`
}

// TickMetrics describes scheduler timing and broadcast volume.
type TickMetrics struct {
	Ticks             uint64     `json:"ticks"`
	LastTickMs        float64    `json:"last_tick_ms"`
	MaxTickMs         float64    `json:"max_tick_ms"`
	BudgetMs          float64    `json:"budget_ms"`
	SlowTicks         uint64     `json:"slow_ticks"`
	LastSlowTick      *time.Time `json:"last_slow_tick,omitempty"`
	BroadcastsSent    uint64     `json:"broadcasts_sent"`
	BroadcastsSkipped uint64     `json:"broadcasts_skipped"`
	FramesDropped     uint64     `json:"frames_dropped"`
}

// WebSocketServerMetrics holds connection figures.
type WebSocketServerMetrics struct {
	ActiveConnections int   `json:"active_connections"`
	UptimeSec         int64 `json:"uptime_sec"`
}

// MetricsResponse is the complete metrics response structure.
type MetricsResponse struct {
	Timestamp         time.Time              `json:"timestamp"`
	Health            HealthStatus           `json:"health"`
	HealthDescription string                 `json:"health_description"`
	World             WorldMetrics           `json:"world"`
	Ticks             TickMetrics            `json:"ticks"`
	WebSocket         WebSocketServerMetrics `json:"websocket"`
	ServerUptime      int64                  `json:"server_uptime_sec"`
}

// MetricsHandler reports the figures the hub publishes after every tick.
type MetricsHandler struct {
	source   StatsSource
	budget   time.Duration
	now      func() time.Time
	stopping atomic.Bool
}

// NewMetricsHandler grades tick durations against budget.
func NewMetricsHandler(source StatsSource, budget time.Duration) *MetricsHandler {
	return &MetricsHandler{source: source, budget: budget, now: time.Now}
}

// Routes registers metrics routes.
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
	r.Get("/metrics/world", h.GetWorld)
	r.Get("/metrics/ticks", h.GetTicks)
}

// SetStopping marks the server as shutting down for maintenance.
func (h *MetricsHandler) SetStopping() {
	h.stopping.Store(true)
}

func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics())
}

func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	m := h.collectMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":   m.Timestamp,
		"health":      m.Health,
		"description": m.HealthDescription,
		"uptime_sec":  m.ServerUptime,
	})
}

func (h *MetricsHandler) GetWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics().World)
}

func (h *MetricsHandler) GetTicks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics().Ticks)
}

func (h *MetricsHandler) collectMetrics() MetricsResponse {
	now := h.now()
	st := h.source.Stats()
	uptime := int64(now.Sub(st.Started).Seconds())

	ticks := TickMetrics{
		Ticks:             st.Ticks,
		LastTickMs:        millis(st.LastTick),
		MaxTickMs:         millis(st.MaxTick),
		BudgetMs:          millis(h.budget),
		SlowTicks:         st.SlowTicks,
		BroadcastsSent:    st.Sent,
		BroadcastsSkipped: st.Skipped,
		FramesDropped:     st.Dropped,
	}
	if !st.LastSlowTick.IsZero() {
		t := st.LastSlowTick
		ticks.LastSlowTick = &t
	}

	health, desc := h.determineHealth(st, now)
	return MetricsResponse{
		Timestamp:         now,
		Health:            health,
		HealthDescription: desc,
		World: WorldMetrics{
			Level:   st.Level,
			Players: st.Players,
			Aliens:  st.Aliens,
			Pickups: st.Pickups,
			Bullets: st.Bullets,
		},
		Ticks:        ticks,
		WebSocket:    WebSocketServerMetrics{ActiveConnections: st.Connections, UptimeSec: uptime},
		ServerUptime: uptime,
	}
}

func (h *MetricsHandler) determineHealth(st server.Stats, now time.Time) (HealthStatus, string) {
	if h.stopping.Load() {
		return HealthMaintenance, "Server is restarting for maintenance - no new connections accepted"
	}
	if st.LastTick > 2*h.budget {
		return HealthCritical, "Last tick took more than twice its budget - clients will see stutter"
	}
	if !st.LastSlowTick.IsZero() && now.Sub(st.LastSlowTick) < slowTickMemory {
		return HealthWarning, "Ticks exceeded their budget within the last minute"
	}
	return HealthHealthy, "Simulation is running within its tick budget"
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
