package middleware

import (
	"net/http"
	"strings"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/utils"

	"github.com/google/uuid"
)

// ExtractAccessToken looks for the credential in the access_token cookie
// first, then the Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// AuthRequired rejects requests without a valid JWT and injects the
// account's identity into the request context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractAccessToken(r)
		if token == "" {
			utils.WriteJSONError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := account.ParseJWT(token)
		if err != nil {
			utils.WriteJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		id, err := uuid.Parse(claims.AccountID)
		if err != nil {
			utils.WriteJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetUserContext(r.Context(), id, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a subtree to a single account role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if utils.GetUserRoleFromContext(r.Context()) != role {
				utils.WriteJSONError(w, "Access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
