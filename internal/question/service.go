package question

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
)

var ErrNotFound = errors.New("question not found")

type memoryStore struct {
	mu        sync.RWMutex
	questions map[string]Question
}

// NewInMemoryStore backs dev mode and tests.
func NewInMemoryStore() Store {
	return &memoryStore{questions: map[string]Question{}}
}

func (m *memoryStore) PutQuestion(_ context.Context, q Question) error {
	if q.ID == "" {
		return errors.New("question id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Unix()
	if prev, ok := m.questions[q.ID]; ok {
		// editing prompt/format keeps the compiled key until the next key save
		q.AnswerRows = prev.AnswerRows
		q.Points = prev.Points
		q.AnswerRequirement = prev.AnswerRequirement
		q.TotalAlternatives = prev.TotalAlternatives
		q.MaxMarks = prev.MaxMarks
		q.CreatedAt = prev.CreatedAt
	} else {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	m.questions[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	q, err := m.GetQuestionFull(ctx, id)
	if err != nil {
		return Question{}, err
	}
	return sanitize(q), nil
}

func (m *memoryStore) GetQuestionFull(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) ListQuestions(_ context.Context, opts ListOpts) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(m.questions))
	for _, q := range m.questions {
		if opts.Q != "" && !strings.Contains(strings.ToLower(q.Prompt), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, sanitize(q))
	}
	return out, nil
}

func (m *memoryStore) SaveAnswerKey(_ context.Context, id string, rows []marking.AnswerRow) (KeyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return KeyResult{}, ErrNotFound
	}
	points, warns := marking.Build(rows)
	summary := marking.Summarize(points, rows)

	q.AnswerRows = rows
	q.Points = points
	q.AnswerRequirement = summary.AnswerRequirement
	q.TotalAlternatives = summary.TotalAlternatives
	q.MaxMarks = summary.MaxMarks
	q.UpdatedAt = time.Now().Unix()
	m.questions[id] = q

	return KeyResult{Points: points, Summary: summary, Warnings: warns}, nil
}
