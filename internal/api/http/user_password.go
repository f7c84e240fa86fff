package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	authmw "github.com/paperdrill/paperdrill-platform/internal/auth/middleware"
)

// bcryptCost is shared with the roster loader so every stored hash costs the
// same to verify.
const bcryptCost = 12

const minPasswordLen = 8

// ChangePasswordHandler lets any authenticated user rotate their own
// password after proving they know the current one.
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(req.NewPassword) < minPasswordLen {
			http.Error(w, "new password too short", http.StatusBadRequest)
			return
		}

		var stored string
		switch err := db.QueryRowContext(r.Context(),
			`SELECT password_hash FROM users WHERE id=$1`, userID).Scan(&stored); {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "user not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(req.OldPassword)) != nil {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := db.ExecContext(r.Context(),
			`UPDATE users SET password_hash=$1 WHERE id=$2`, hash, userID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
