package domain

import "context"

// ServicePort is consumed by the handlers
type ServicePort interface {
	Estimate(ctx context.Context, in EstimateInput) (Estimate, error)
	EstimateSession(ctx context.Context, sessionID, face string) (SessionEstimate, error)
	Summaries(ctx context.Context, participantID string) (SummaryList, error)
}
