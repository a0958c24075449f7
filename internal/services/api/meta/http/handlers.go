// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"codg/internal/core/codg"
	"codg/internal/core/version"
	"codg/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Engine      codg.Options
	// ReadyTimeout bounds each dependency ping, 2s when zero
	ReadyTimeout time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/engine", h.engine)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"codg-api"`
	Started string `json:"started"  example:"2025-06-01T09:00:00Z"`
	Uptime  int64  `json:"uptime"   example:"300"`
	Now     string `json:"now"      example:"2025-06-01T09:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-06-01T09:05:00Z"`
}

// EngineResponse describes the estimator configuration
type EngineResponse struct {
	GazeMin     float64       `json:"gaze_min"     example:"-12"`
	GazeMax     float64       `json:"gaze_max"     example:"12"`
	MinLevels   int           `json:"min_levels"   example:"5"`
	MinTrials   int           `json:"min_trials"   example:"30"`
	LeftPolicy  string        `json:"left_policy"  example:"nearest_below_zero"`
	RightPolicy string        `json:"right_policy" example:"nearest_above_zero"`
	Statuses    []codg.Status `json:"statuses"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	now := time.Now()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
		Now:     now.UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	pg := check("pg", h.deps.PG)
	ch := check("ch", h.deps.CH)

	// the archive is optional, only postgres decides fail
	overall := "ok"
	switch {
	case pg.Status == "fail":
		overall = "fail"
	case pg.Status != "ok" || ch.Status == "fail" || ch.Status == "unknown":
		overall = "degraded"
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg, ch},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Estimator domain, thresholds and root policies
// @Tags Meta
// @Produce json
// @Success 200 {object} EngineResponse "ok"
// @Router /meta/engine [get]
func (h *handlers) engine(_ *http.Request) (any, error) {
	o := h.deps.Engine.WithDefaults()
	return EngineResponse{
		GazeMin:     o.GazeMin,
		GazeMax:     o.GazeMax,
		MinLevels:   codg.MinLevels,
		MinTrials:   codg.MinTrials,
		LeftPolicy:  o.LeftPolicy.Name(),
		RightPolicy: o.RightPolicy.Name(),
		Statuses: []codg.Status{
			codg.StatusOK, codg.StatusInsufficientData, codg.StatusFitFailed, codg.StatusIntersectionNotFound,
		},
	}, nil
}
