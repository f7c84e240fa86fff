package auth

import "context"

type subjectKey struct{}

// WithSubject records the authenticated user id on the context.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the authenticated user id, or "" when the
// request never passed JWTMiddleware.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
