package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/paperdrill/paperdrill-platform/internal/auth/middleware"
	"github.com/paperdrill/paperdrill-platform/internal/rbac"
	"github.com/paperdrill/paperdrill-platform/internal/session"
	syncx "github.com/paperdrill/paperdrill-platform/internal/sync"
)

func CreateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionIDs []string `json:"question_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		s, err := store.NewSession(r.Context(), userID, req.QuestionIDs)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}

func SubmitAnswerHandler(store session.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			QuestionID string `json:"question_id"`
			AnswerText string `json:"answer_text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !ownsSession(store, r, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		sub, err := store.SubmitAnswer(r.Context(), id, req.QuestionID, req.AnswerText)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		if events != nil {
			data, _ := json.Marshal(sub)
			_ = events.Append(r.Context(), syncx.Event{
				Type: syncx.EventAnswerSubmitted, Key: id, DataJSON: string(data),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sub)
	}
}

func FinishSessionHandler(store session.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if !ownsSession(store, r, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		s, err := store.Finish(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		if events != nil {
			data, _ := json.Marshal(s)
			_ = events.Append(r.Context(), syncx.Event{
				Type: syncx.EventSessionFinished, Key: id, DataJSON: string(data),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}

func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := store.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		if !mayViewSession(r, s) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}

func ListSubmissionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := store.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		if !mayViewSession(r, s) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		subs, err := store.ListSubmissions(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(subs)
	}
}

// Learners act only on their own sessions; graders with session:view-all
// still cannot submit on someone else's behalf.
func ownsSession(store session.Store, r *http.Request, sessionID string) bool {
	s, err := store.GetSession(r.Context(), sessionID)
	if err != nil {
		return true // let the store report not-found with the right status
	}
	return s.UserID == authmw.SubjectFromContext(r.Context())
}

func mayViewSession(r *http.Request, s session.Session) bool {
	if s.UserID == authmw.SubjectFromContext(r.Context()) {
		return true
	}
	return rbac.HasPerm(rbac.RoleFromContext(r.Context()), "session:view-all")
}

func sessionErrStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrNoSuchQ):
		return http.StatusNotFound
	case errors.Is(err, session.ErrFinished), errors.Is(err, session.ErrNotInSet):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
