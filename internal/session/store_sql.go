package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
	"github.com/paperdrill/paperdrill-platform/internal/question"
)

type SQLStore struct {
	db        *sql.DB
	questions question.Store
	grader    marking.Grader
}

func NewSQLStore(db *sql.DB, qs question.Store, g marking.Grader) *SQLStore {
	return &SQLStore{db: db, questions: qs, grader: g}
}

func (s *SQLStore) NewSession(ctx context.Context, userID string, questionIDs []string) (Session, error) {
	if userID == "" || len(questionIDs) == 0 {
		return Session{}, errors.New("user_id and question_ids required")
	}
	for _, qid := range questionIDs {
		if _, err := s.questions.GetQuestionFull(ctx, qid); err != nil {
			if errors.Is(err, question.ErrNotFound) {
				return Session{}, ErrNoSuchQ
			}
			return Session{}, err
		}
	}
	qj, err := json.Marshal(questionIDs)
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuestionIDs: questionIDs,
		Status:      "in_progress",
		StartedAt:   time.Now().Unix(),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions
		(id, user_id, question_ids_json, status, total_awarded, total_max, started_at)
		VALUES ($1,$2,$3,'in_progress',0,0,$4)`,
		sess.ID, sess.UserID, string(qj), sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, question_ids_json, status,
		total_awarded, total_max, started_at, COALESCE(finished_at, 0)
		FROM sessions WHERE id=$1`, id)
	var sess Session
	var qj string
	if err := row.Scan(&sess.ID, &sess.UserID, &qj, &sess.Status,
		&sess.TotalAwarded, &sess.TotalMax, &sess.StartedAt, &sess.FinishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(qj), &sess.QuestionIDs); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (Submission, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return Submission{}, err
	}
	if sess.Status != "in_progress" {
		return Submission{}, ErrFinished
	}
	found := false
	for _, qid := range sess.QuestionIDs {
		if qid == questionID {
			found = true
			break
		}
	}
	if !found {
		return Submission{}, ErrNotInSet
	}

	q, err := s.questions.GetQuestionFull(ctx, questionID)
	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			return Submission{}, ErrNoSuchQ
		}
		return Submission{}, err
	}

	res, err := s.grader.Grade(ctx, marking.Q{Format: q.Format, Points: q.Points}, answerText)
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
	satJSON, _ := json.Marshal(sub.SatisfiedIDs)
	misJSON, _ := json.Marshal(sub.MissedIDs)
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions
		(id, session_id, question_id, answer_text, awarded, max_marks, satisfied_json, missed_json, needs_manual, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		sub.ID, sub.SessionID, sub.QuestionID, sub.AnswerText,
		sub.Awarded, sub.MaxMarks, string(satJSON), string(misJSON), sub.NeedsManual, sub.CreatedAt)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) ListSubmissions(ctx context.Context, sessionID string) ([]Submission, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, question_id, answer_text,
		awarded, max_marks, satisfied_json, missed_json, needs_manual, created_at
		FROM submissions WHERE session_id=$1 ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		var sub Submission
		var satJSON, misJSON string
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.QuestionID, &sub.AnswerText,
			&sub.Awarded, &sub.MaxMarks, &satJSON, &misJSON, &sub.NeedsManual, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(satJSON), &sub.SatisfiedIDs); err != nil {
			sub.SatisfiedIDs = []string{}
		}
		if err := json.Unmarshal([]byte(misJSON), &sub.MissedIDs); err != nil {
			sub.MissedIDs = []string{}
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) Finish(ctx context.Context, sessionID string) (Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status == "finished" {
		return sess, nil
	}

	subs, err := s.ListSubmissions(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	latest := latestPerQuestion(subs)

	total, max := 0, 0
	for _, qid := range sess.QuestionIDs {
		q, err := s.questions.GetQuestionFull(ctx, qid)
		if err != nil {
			return Session{}, err
		}
		max += q.MaxMarks
		if sub, ok := latest[qid]; ok {
			total += sub.Awarded
		}
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `UPDATE sessions
		SET status='finished', total_awarded=$1, total_max=$2, finished_at=$3
		WHERE id=$4`, total, max, now, sessionID)
	if err != nil {
		return Session{}, err
	}
	sess.Status = "finished"
	sess.TotalAwarded = total
	sess.TotalMax = max
	sess.FinishedAt = now
	return sess, nil
}
