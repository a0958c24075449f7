package domain

import (
	"context"

	"codg/internal/core/codg"
)

// Reader is the read side other modules consume through WithPorts
type Reader interface {
	Get(ctx context.Context, id string) (Session, error)
	Trials(ctx context.Context, id string) ([]codg.TrialRecord, error)
	ParticipantTrials(ctx context.Context, participantID, stimulus string) ([]codg.TrialRecord, error)
}

// ServicePort is consumed by the handlers
type ServicePort interface {
	Reader
	Create(ctx context.Context, in CreateInput) (Session, error)
	Append(ctx context.Context, id string, in AppendInput) (AppendResult, error)
}
