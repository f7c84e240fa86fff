package question

import "github.com/paperdrill/paperdrill-platform/internal/marking"

// Question is an authored exam question. AnswerRows is the raw authored key;
// Points is the compiled marking-point snapshot the grading path reads.
type Question struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Format string `json:"format"` // text, file, diagram, table

	AnswerRows []marking.AnswerRow    `json:"answer_rows,omitempty"`
	Points     []marking.MarkingPoint `json:"marking_points,omitempty"`

	// Derived on every answer-key save, persisted for display.
	AnswerRequirement marking.RequirementKind `json:"answer_requirement,omitempty"`
	TotalAlternatives int                     `json:"total_alternatives"`
	MaxMarks          int                     `json:"max_marks"`

	CreatedAt int64 `json:"created_at,omitempty"`
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// KeyResult is what an answer-key save returns to the authoring UI.
type KeyResult struct {
	Points   []marking.MarkingPoint `json:"marking_points"`
	Summary  marking.KeySummary     `json:"summary"`
	Warnings []marking.Warning      `json:"warnings"`
}

// sanitize strips everything a learner must not see.
func sanitize(q Question) Question {
	q.AnswerRows = nil
	q.Points = nil
	return q
}
