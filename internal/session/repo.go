package session

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrFinished = errors.New("session already finished")
	ErrNotInSet = errors.New("question not part of this session")
	ErrNoSuchQ  = errors.New("question not found")
)

type Store interface {
	NewSession(ctx context.Context, userID string, questionIDs []string) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)

	// SubmitAnswer scores the extracted answer text against the question's
	// persisted marking-point snapshot and records the per-item outcome.
	SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (Submission, error)

	ListSubmissions(ctx context.Context, sessionID string) ([]Submission, error)

	// Finish aggregates the latest submission per question into the session
	// total. Finishing twice is a no-op.
	Finish(ctx context.Context, sessionID string) (Session, error)
}
