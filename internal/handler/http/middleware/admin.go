package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r) {
			response.Forbidden(w, "Admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SelfOrAdmin lets staff reach their own {staffID} routes and admins reach
// any of them.
func SelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r) && chi.URLParam(r, "staffID") != StaffID(r) {
			response.Forbidden(w, "Access to another staff member's records is not allowed")
			return
		}

		next.ServeHTTP(w, r)
	})
}
