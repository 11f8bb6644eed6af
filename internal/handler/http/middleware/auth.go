package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens. It runs after
// jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}

		if staffID, _ := claims["staff_id"].(string); staffID == "" {
			response.Unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StaffID returns the staff_id claim of the authenticated caller.
func StaffID(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	staffID, _ := claims["staff_id"].(string)
	return staffID
}

// IsAdmin reports the is_admin claim of the authenticated caller.
func IsAdmin(r *http.Request) bool {
	_, claims, _ := jwtauth.FromContext(r.Context())
	admin, _ := claims["is_admin"].(bool)
	return admin
}
