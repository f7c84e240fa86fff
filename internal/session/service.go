package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
	"github.com/paperdrill/paperdrill-platform/internal/question"
)

type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	submissions map[string][]Submission // sessionID -> append-only log

	questions question.Store
	grader    marking.Grader
}

// NewInMemoryStore backs dev mode and tests. Scoring always reads the
// question store's current marking-point snapshot.
func NewInMemoryStore(qs question.Store, g marking.Grader) Store {
	return &memoryStore{
		sessions:    map[string]Session{},
		submissions: map[string][]Submission{},
		questions:   qs,
		grader:      g,
	}
}

func (m *memoryStore) NewSession(ctx context.Context, userID string, questionIDs []string) (Session, error) {
	if userID == "" || len(questionIDs) == 0 {
		return Session{}, errors.New("user_id and question_ids required")
	}
	for _, qid := range questionIDs {
		if _, err := m.questions.GetQuestionFull(ctx, qid); err != nil {
			if errors.Is(err, question.ErrNotFound) {
				return Session{}, ErrNoSuchQ
			}
			return Session{}, err
		}
	}
	s := Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuestionIDs: questionIDs,
		Status:      "in_progress",
		StartedAt:   time.Now().Unix(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *memoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (Submission, error) {
	s, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return Submission{}, err
	}
	if s.Status != "in_progress" {
		return Submission{}, ErrFinished
	}
	if !contains(s.QuestionIDs, questionID) {
		return Submission{}, ErrNotInSet
	}

	q, err := m.questions.GetQuestionFull(ctx, questionID)
	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			return Submission{}, ErrNoSuchQ
		}
		return Submission{}, err
	}

	res, err := m.grader.Grade(ctx, marking.Q{Format: q.Format, Points: q.Points}, answerText)
	if err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		QuestionID:   questionID,
		AnswerText:   answerText,
		Awarded:      res.Score.AwardedMarks,
		MaxMarks:     res.Score.MaxMarks,
		SatisfiedIDs: res.Score.SatisfiedIDs,
		MissedIDs:    res.Score.MissedIDs,
		NeedsManual:  res.NeedsManual,
		CreatedAt:    time.Now().Unix(),
	}
	m.mu.Lock()
	m.submissions[sessionID] = append(m.submissions[sessionID], sub)
	m.mu.Unlock()
	return sub, nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, sessionID string) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrNotFound
	}
	out := make([]Submission, len(m.submissions[sessionID]))
	copy(out, m.submissions[sessionID])
	return out, nil
}

func (m *memoryStore) Finish(ctx context.Context, sessionID string) (Session, error) {
	s, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if s.Status == "finished" {
		return s, nil
	}

	subs, err := m.ListSubmissions(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	latest := latestPerQuestion(subs)

	total, max := 0, 0
	for _, qid := range s.QuestionIDs {
		q, err := m.questions.GetQuestionFull(ctx, qid)
		if err != nil {
			return Session{}, err
		}
		max += q.MaxMarks
		if sub, ok := latest[qid]; ok {
			total += sub.Awarded
		}
	}

	s.Status = "finished"
	s.TotalAwarded = total
	s.TotalMax = max
	s.FinishedAt = time.Now().Unix()
	m.mu.Lock()
	m.sessions[sessionID] = s
	m.mu.Unlock()
	return s, nil
}

func latestPerQuestion(subs []Submission) map[string]Submission {
	out := map[string]Submission{}
	for _, sub := range subs {
		out[sub.QuestionID] = sub // append order; last write wins
	}
	return out
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
