package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
	"github.com/paperdrill/paperdrill-platform/internal/question"
	"github.com/paperdrill/paperdrill-platform/internal/rbac"
	syncx "github.com/paperdrill/paperdrill-platform/internal/sync"
)

var validFormats = map[string]bool{"text": true, "file": true, "diagram": true, "table": true}

func PutQuestionHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q question.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if q.ID == "" {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}
		if q.Format == "" {
			q.Format = "text"
		}
		if !validFormats[q.Format] {
			http.Error(w, "unknown format: "+q.Format, http.StatusBadRequest)
			return
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "id": q.ID})
	}
}

// GetQuestionHandler serves the full record to roles that may edit the
// answer key and a stripped view to everyone else.
func GetQuestionHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		role := rbac.RoleFromContext(r.Context())

		var (
			q   question.Question
			err error
		)
		if rbac.HasPerm(role, "answerkey:edit") {
			q, err = store.GetQuestionFull(r.Context(), id)
		} else {
			q, err = store.GetQuestion(r.Context(), id)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(q)
	}
}

func ListQuestionsHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := question.ListOpts{Q: r.URL.Query().Get("q")}
		if v := r.URL.Query().Get("limit"); v != "" {
			opts.Limit, _ = strconv.Atoi(v)
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			opts.Offset, _ = strconv.Atoi(v)
		}
		qs, err := store.ListQuestions(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(qs)
	}
}

// SaveAnswerKeyHandler replaces the question's answer rows, recompiles its
// marking points and returns the compiled key plus any data-quality
// warnings for the author to fix.
func SaveAnswerKeyHandler(store question.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		var req struct {
			Rows []marking.AnswerRow `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res, err := store.SaveAnswerKey(r.Context(), id, req.Rows)
		if err != nil {
			if errors.Is(err, question.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if events != nil {
			data, _ := json.Marshal(res.Summary)
			_ = events.Append(r.Context(), syncx.Event{
				Type: syncx.EventAnswerKeyRebuilt, Key: id, DataJSON: string(data),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}

// PreviewScoreHandler lets an author try a candidate answer against the
// stored marking points without creating a session.
func PreviewScoreHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		var req struct {
			AnswerText string `json:"answer_text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, err := store.GetQuestionFull(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		res := marking.Score(q.Points, req.AnswerText)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
