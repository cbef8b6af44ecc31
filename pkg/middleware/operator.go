package middleware

import (
	"context"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/pkg/httputil"
)

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// OperatorResolver returns the ID of the signed-in operator, or "" when
// nobody is signed in.
type OperatorResolver func(ctx context.Context) (string, error)

// Operator stores the signed-in operator's ID in the request context.
// Requests without an operator are rejected with 401 when required is set,
// and passed through otherwise.
func Operator(resolve OperatorResolver, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolve(r.Context())
			if err != nil || id == "" {
				if required {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
						Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "not signed in; run `counselctl login`"},
					})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the operator ID set by Operator.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
