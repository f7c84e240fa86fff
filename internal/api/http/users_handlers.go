package http

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type userRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"` // plaintext, hashed before storage
}

// BulkUpsertUsersHandler lets a teacher load a class roster in one call.
// Accepts a multipart file= upload (CSV or JSON) or a raw JSON array body.
func BulkUpsertUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []userRow
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()
			// sniff JSON vs CSV by the first non-space byte
			buf := make([]byte, 1)
			if _, err := f.Read(buf); err != nil {
				http.Error(w, "empty file", http.StatusBadRequest)
				return
			}
			if seeker, ok := f.(io.Seeker); ok {
				_, _ = seeker.Seek(0, io.SeekStart)
			}
			if buf[0] == '[' || buf[0] == '{' {
				if err := json.NewDecoder(f).Decode(&rows); err != nil {
					http.Error(w, "bad json", http.StatusBadRequest)
					return
				}
			} else {
				rs, err := parseRosterCSV(f)
				if err != nil {
					http.Error(w, "bad csv: "+err.Error(), http.StatusBadRequest)
					return
				}
				rows = rs
			}
		} else {
			if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
				http.Error(w, "expected JSON array or multipart file", http.StatusBadRequest)
				return
			}
		}

		ins, upd, err := upsertUsers(r.Context(), db, rows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"inserted": ins, "updated": upd})
	}
}

func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		var (
			rows *sql.Rows
			err  error
		)
		if role == "" {
			rows, err = db.QueryContext(r.Context(), `SELECT id, username, role FROM users ORDER BY username`)
		} else {
			rows, err = db.QueryContext(r.Context(), `SELECT id, username, role FROM users WHERE role=$1 ORDER BY username`, role)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []map[string]string{}
		for rows.Next() {
			var id, username, role string
			if err := rows.Scan(&id, &username, &role); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, map[string]string{"id": id, "username": username, "role": role})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func parseRosterCSV(r io.Reader) ([]userRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"id", "username", "role"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var rows []userRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := userRow{
			ID:       rec[idx["id"]],
			Username: rec[idx["username"]],
			Role:     strings.ToLower(rec[idx["role"]]),
		}
		if i, ok := idx["password"]; ok {
			row.Password = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func upsertUsers(ctx context.Context, db *sql.DB, rows []userRow) (inserted, updated int, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	now := time.Now().Unix()
	for _, u := range rows {
		if u.Role == "" {
			u.Role = "student"
		}
		if u.Role != "student" && u.Role != "teacher" && u.Role != "admin" {
			return inserted, updated, errors.New("invalid role: " + u.Role)
		}
		var phash string
		if u.Password != "" {
			b, e := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
			if e != nil {
				return inserted, updated, e
			}
			phash = string(b)
		}

		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=$1 OR username=$2`, u.ID, u.Username).Scan(new(int)); err == nil {
			exists = true
		} else if !errors.Is(err, sql.ErrNoRows) {
			return inserted, updated, err
		}
		if exists {
			if phash != "" {
				_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2, password_hash=$3 WHERE id=$4`,
					u.Username, u.Role, phash, u.ID)
			} else {
				_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2 WHERE id=$3`,
					u.Username, u.Role, u.ID)
			}
			if err != nil {
				return inserted, updated, err
			}
			updated++
		} else {
			if phash == "" {
				return inserted, updated, errors.New("password required for new user: " + u.Username)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
				u.ID, u.Username, phash, u.Role, now)
			if err != nil {
				return inserted, updated, err
			}
			inserted++
		}
	}
	return
}
