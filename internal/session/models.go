package session

// Session is one learner's practice run over a set of questions.
type Session struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	QuestionIDs  []string `json:"question_ids"`
	Status       string   `json:"status"` // in_progress|finished
	TotalAwarded int      `json:"total_awarded"`
	TotalMax     int      `json:"total_max"`
	StartedAt    int64    `json:"started_at"`
	FinishedAt   int64    `json:"finished_at,omitempty"`
}

// Submission is one scored answer within a session. Submissions are
// append-only; the latest one per question counts toward the session total.
type Submission struct {
	ID           string   `json:"id"`
	SessionID    string   `json:"session_id"`
	QuestionID   string   `json:"question_id"`
	AnswerText   string   `json:"answer_text"`
	Awarded      int      `json:"awarded_marks"`
	MaxMarks     int      `json:"max_marks"`
	SatisfiedIDs []string `json:"satisfied_point_ids"`
	MissedIDs    []string `json:"unsatisfied_required_point_ids"`
	NeedsManual  bool     `json:"needs_manual,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}
