package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/paperdrill/paperdrill-platform/internal/rbac"
)

// AttachRoleFromDB replaces the claim role with the user's current DB role.
// allowClaimFallback=true in dev/offline; false in prod.
func AttachRoleFromDB(db *sql.DB, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)
			claimRole := rbac.RoleFromContext(ctx) // set by JWTMiddleware

			var role string
			err := db.QueryRowContext(ctx,
				`SELECT role FROM users WHERE id=$1 OR username=$1`,
				sub,
			).Scan(&role)

			switch {
			case err == nil && role != "":
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, sql.ErrNoRows) || isUsersTableMissing(err):
				if claimRole == "admin" || (allowClaimFallback && claimRole != "") {
					next.ServeHTTP(w, r) // keep whatever JWTMiddleware set
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				if allowClaimFallback && claimRole != "" {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
			}
		})
	}
}

func isUsersTableMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table: users") || // sqlite
		strings.Contains(msg, `relation "users" does not exist`) // postgres
}
