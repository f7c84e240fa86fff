package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	if q.ID == "" {
		return errors.New("question id required")
	}
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `INSERT INTO questions
		(id, prompt, format, answer_rows_json, marking_points_json, answer_requirement, total_alternatives, max_marks, created_at, updated_at)
		VALUES ($1,$2,$3,'[]','[]','',0,0,$4,$4)
		ON CONFLICT (id) DO UPDATE SET prompt=EXCLUDED.prompt, format=EXCLUDED.format, updated_at=EXCLUDED.updated_at`,
		q.ID, q.Prompt, q.Format, now)
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	q, err := s.GetQuestionFull(ctx, id)
	if err != nil {
		return Question{}, err
	}
	return sanitize(q), nil
}

func (s *SQLStore) GetQuestionFull(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, prompt, format, answer_rows_json, marking_points_json,
		answer_requirement, total_alternatives, max_marks, created_at, updated_at
		FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id, prompt, format, answer_rows_json, marking_points_json,
		answer_requirement, total_alternatives, max_marks, created_at, updated_at
		FROM questions`
	args := []interface{}{}
	if opts.Q != "" {
		// sqlite LIKE is already case-insensitive for ASCII; postgres needs ILIKE
		like := "LIKE"
		if s.driver == "postgres" {
			like = "ILIKE"
		}
		q += ` WHERE prompt ` + like + ` '%' || $1 || '%'`
		args = append(args, opts.Q)
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	// LIMIT/OFFSET stay out of the placeholder list, which sqlite and
	// postgres number differently
	q += ` ORDER BY created_at DESC, id LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		qq, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sanitize(qq))
	}
	return out, rows.Err()
}

// SaveAnswerKey stores the raw rows and the freshly compiled points in one
// update. The grading path only ever reads this snapshot.
func (s *SQLStore) SaveAnswerKey(ctx context.Context, id string, rowsIn []marking.AnswerRow) (KeyResult, error) {
	if _, err := s.GetQuestionFull(ctx, id); err != nil {
		return KeyResult{}, err
	}

	points, warns := marking.Build(rowsIn)
	summary := marking.Summarize(points, rowsIn)

	rowsJSON, err := json.Marshal(rowsIn)
	if err != nil {
		return KeyResult{}, err
	}
	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return KeyResult{}, err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE questions
		SET answer_rows_json=$1, marking_points_json=$2, answer_requirement=$3,
		    total_alternatives=$4, max_marks=$5, updated_at=$6
		WHERE id=$7`,
		string(rowsJSON), string(pointsJSON), string(summary.AnswerRequirement),
		summary.TotalAlternatives, summary.MaxMarks, time.Now().Unix(), id)
	if err != nil {
		return KeyResult{}, err
	}
	return KeyResult{Points: points, Summary: summary, Warnings: warns}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(r rowScanner) (Question, error) {
	var q Question
	var rowsJSON, pointsJSON, req string
	err := r.Scan(&q.ID, &q.Prompt, &q.Format, &rowsJSON, &pointsJSON,
		&req, &q.TotalAlternatives, &q.MaxMarks, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	q.AnswerRequirement = marking.RequirementKind(req)
	if rowsJSON != "" {
		if err := json.Unmarshal([]byte(rowsJSON), &q.AnswerRows); err != nil {
			return Question{}, err
		}
	}
	if pointsJSON != "" {
		if err := json.Unmarshal([]byte(pointsJSON), &q.Points); err != nil {
			return Question{}, err
		}
	}
	return q, nil
}
