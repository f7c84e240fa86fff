package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paperdrill/paperdrill-platform/internal/storage"
)

// MountAssets serves uploads for non-text answers (diagrams, worked files)
// and question attachments. Keys are namespaced by question so a re-upload
// replaces the previous attempt.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// POST /assets/{questionID}
	r.Post("/{questionID}", func(w http.ResponseWriter, r *http.Request) {
		questionID := chi.URLParam(r, "questionID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		name := "upload.bin"
		if hdr != nil && hdr.Filename != "" {
			name = hdr.Filename
		}
		key := "questions/" + questionID + "/" + name
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key})
	})

	// GET /assets/*  -> streams the blob at whatever follows /assets/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	})
}
