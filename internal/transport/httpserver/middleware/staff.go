package middleware

import "net/http"

// RequireStaff guards the administration endpoints. It runs after Auth.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := UserFrom(r.Context())
		if account == nil {
			unauthorized(w)
			return
		}
		if !account.IsAdmin && !account.IsStaff {
			writeError(w, http.StatusForbidden, "forbidden", "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
