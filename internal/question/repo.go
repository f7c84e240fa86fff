package question

import (
	"context"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
)

type ListOpts struct {
	Q      string // substring filter on the prompt
	Limit  int
	Offset int
}

type Store interface {
	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)     // student-safe (no key)
	GetQuestionFull(ctx context.Context, id string) (Question, error) // key included, for authors and grading
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)

	// SaveAnswerKey replaces the question's answer rows and rebuilds its
	// marking points wholesale. The previous point sequence is discarded.
	SaveAnswerKey(ctx context.Context, id string, rows []marking.AnswerRow) (KeyResult, error)
}
