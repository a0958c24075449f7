// Package http provides http transport for estimates
package http

import (
	stdhttp "net/http"

	"codg/internal/modkit/httpkit"
	"codg/internal/services/api/estimates/domain"
)

// Register mounts estimate endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON(r, "/", h.estimate)
	httpkit.Post(r, "/sessions/{id}", h.estimateSession)
	httpkit.Get(r, "/participants/{pid}", h.summaries)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Estimate posted judgements
// @Description Runs the estimator over the posted trials; nothing is stored
// @Tags Estimates
// @Accept json
// @Produce json
// @Param payload body domain.EstimateInput true "Judgements"
// @Success 200 {object} domain.Estimate "ok"
// @Router /estimates [post]
func (h *handlers) estimate(r *stdhttp.Request, in domain.EstimateInput) (any, error) {
	return h.svc.Estimate(r.Context(), in)
}

// @Summary Estimate a stored session
// @Description Estimates the session's trials and stores a summary row
// @Tags Estimates
// @Produce json
// @Param id path string true "Session id"
// @Param face query string false "Restrict to one stimulus identity"
// @Success 201 {object} domain.SessionEstimate "created"
// @Router /estimates/sessions/{id} [post]
func (h *handlers) estimateSession(r *stdhttp.Request) (any, error) {
	out, err := h.svc.EstimateSession(r.Context(), httpkit.URLParam(r, "id"), r.URL.Query().Get("face"))
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// @Summary List a participant's summaries
// @Tags Estimates
// @Produce json
// @Param pid path string true "Participant id"
// @Success 200 {object} domain.SummaryList "ok"
// @Router /estimates/participants/{pid} [get]
func (h *handlers) summaries(r *stdhttp.Request) (any, error) {
	return h.svc.Summaries(r.Context(), httpkit.URLParam(r, "pid"))
}
