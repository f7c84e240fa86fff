package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/paperdrill/paperdrill-platform/internal/api/http"
	auth "github.com/paperdrill/paperdrill-platform/internal/auth/middleware"
	"github.com/paperdrill/paperdrill-platform/internal/config"
	"github.com/paperdrill/paperdrill-platform/internal/db"
	"github.com/paperdrill/paperdrill-platform/internal/marking"
	"github.com/paperdrill/paperdrill-platform/internal/question"
	"github.com/paperdrill/paperdrill-platform/internal/rbac"
	"github.com/paperdrill/paperdrill-platform/internal/session"
	"github.com/paperdrill/paperdrill-platform/internal/storage"
	syncx "github.com/paperdrill/paperdrill-platform/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := ensureAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	questions := question.NewSQLStore(dbh, cfg.DBDriver)
	grader := marking.NewGrader()
	sessions := session.NewSQLStore(dbh, questions, grader)
	events := syncx.NewEventRepo(dbh)
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Asset uploads for diagram/file answers (protected).
	allowClaimRole := cfg.Mode == config.ModeOffline

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, allowClaimRole))
		pr.Route("/assets", func(ar chi.Router) {
			ar.Use(rbac.Require("asset:upload"))
			api.MountAssets(ar, bs)
		})
	})

	// Protected API (JWT -> role in context -> RBAC).
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, allowClaimRole))

		// Authoring
		pr.With(rbac.Require("question:author")).
			Post("/questions", api.PutQuestionHandler(questions))
		pr.With(rbac.Require("answerkey:edit")).
			Put("/questions/{questionID}/answer-key", api.SaveAnswerKeyHandler(questions, events))
		pr.With(rbac.Require("score:preview")).
			Post("/questions/{questionID}/preview-score", api.PreviewScoreHandler(questions))

		// Question reads (handler strips the key for non-editors)
		pr.With(rbac.Require("question:view")).
			Get("/questions", api.ListQuestionsHandler(questions))
		pr.With(rbac.Require("question:view")).
			Get("/questions/{questionID}", api.GetQuestionHandler(questions))

		// Practice flow
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(sessions))
		pr.With(rbac.Require("session:submit")).
			Post("/sessions/{sessionID}/answers", api.SubmitAnswerHandler(sessions, events))
		pr.With(rbac.Require("session:submit")).
			Post("/sessions/{sessionID}/finish", api.FinishSessionHandler(sessions, events))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(sessions))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}/answers", api.ListSubmissionsHandler(sessions))

		// Users (teacher/admin)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))

		// Event-log replay for offline sites
		pr.With(rbac.Require("session:view-all")).
			Get("/sync/events", api.ListEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// ensureAdmin seeds the admin account on first boot when ADMIN_PASS_HASH is
// set, so a fresh offline site is usable without manual SQL.
func ensureAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	if cfg.AdminPassHash == "" {
		return nil
	}
	var one int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, cfg.AdminUser).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,'admin',$4)`,
		cfg.AdminUser, cfg.AdminUser, cfg.AdminPassHash, time.Now().Unix())
	return err
}
