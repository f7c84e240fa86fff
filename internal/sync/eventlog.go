package syncx

import (
	"context"
	"database/sql"
	"strconv"
	"time"
)

// Event types recorded by the gateway. Offline sites replay the log when
// they come back online.
const (
	EventAnswerKeyRebuilt = "AnswerKeyRebuilt"
	EventAnswerSubmitted  = "AnswerSubmitted"
	EventSessionFinished  = "SessionFinished"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string // natural key: questionID or sessionID
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Since returns up to limit events after the given offset, oldest first.
func (r *EventRepo) Since(ctx context.Context, offset int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset_id, site_id, typ, key, data, created_at
		 FROM event_log WHERE offset_id > $1 ORDER BY offset_id LIMIT `+strconv.Itoa(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
