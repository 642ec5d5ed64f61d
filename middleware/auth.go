package middleware

import (
	"context"
	"net/http"

	"github.com/raulcamp/good-deeds/utils"
)

// RequireLogin rejects anonymous requests. The caller identity comes from
// the Bearer header or the session cookie and is placed in the request
// context for downstream checks and handlers.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.IdentityFromRequest(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "You must be logged in first!")
			return
		}
		ctx := context.WithValue(r.Context(), utils.UserIDKey, id.UserID)
		ctx = context.WithValue(ctx, utils.UsernameKey, id.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalIdentity populates the caller identity when a valid token is
// present and otherwise passes the request through anonymous.
func OptionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := utils.IdentityFromRequest(r); err == nil {
			ctx := context.WithValue(r.Context(), utils.UserIDKey, id.UserID)
			ctx = context.WithValue(ctx, utils.UsernameKey, id.Username)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
