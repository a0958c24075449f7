// Package http provides http transport for sessions
package http

import (
	stdhttp "net/http"
	"strings"

	"codg/internal/core/codg"
	"codg/internal/modkit/httpkit"
	"codg/internal/services/api/sessions/domain"
)

// Register mounts session endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON(r, "/", h.create)
	httpkit.Get(r, "/{id}", h.get)

	// trials of one session
	httpkit.PostJSON(r, "/{id}/trials", h.appendTrials)
	httpkit.Get(r, "/{id}/trials", h.trials)

	// pooled across a participant's sessions
	httpkit.Get(r, "/participants/{pid}/trials", h.participantTrials)
}

type handlers struct{ svc domain.ServicePort }

// ParticipantTrials lists a participant's trials across sessions
type ParticipantTrials struct {
	ParticipantID string             `json:"participant_id" example:"P001"`
	Face          string             `json:"face,omitempty" example:"M1"`
	Trials        []codg.TrialRecord `json:"trials"`
}

// @Summary Open a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Participant and device"
// @Success 201 {object} domain.Session "created"
// @Router /sessions [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	s, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(s), nil
}

// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.Session "ok"
// @Router /sessions/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.URLParam(r, "id"))
}

// @Summary Append answered trials
// @Description Indexes already stored for the session are skipped
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body domain.AppendInput true "Trials"
// @Success 200 {object} domain.AppendResult "ok"
// @Router /sessions/{id}/trials [post]
func (h *handlers) appendTrials(r *stdhttp.Request, in domain.AppendInput) (any, error) {
	return h.svc.Append(r.Context(), httpkit.URLParam(r, "id"), in)
}

// @Summary List a session's trials
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.TrialsPage "ok"
// @Router /sessions/{id}/trials [get]
func (h *handlers) trials(r *stdhttp.Request) (any, error) {
	ctx := r.Context()
	id := httpkit.URLParam(r, "id")
	sess, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	recs, err := h.svc.Trials(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return domain.TrialsPage{Session: sess, Trials: recs}, nil
}

// @Summary List a participant's trials
// @Tags Sessions
// @Produce json
// @Param pid path string true "Participant id"
// @Param face query string false "Restrict to one stimulus identity"
// @Success 200 {object} ParticipantTrials "ok"
// @Router /sessions/participants/{pid}/trials [get]
func (h *handlers) participantTrials(r *stdhttp.Request) (any, error) {
	pid := httpkit.URLParam(r, "pid")
	face := strings.TrimSpace(r.URL.Query().Get("face"))
	recs, err := h.svc.ParticipantTrials(r.Context(), pid, face)
	if err != nil {
		return nil, err
	}
	return ParticipantTrials{ParticipantID: pid, Face: face, Trials: recs}, nil
}
