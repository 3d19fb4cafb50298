package auth

import (
	"encoding/json"
	"net/http"
)

// AdminUsername is the fixed username clients send with the admin password.
// The server does not check it.
const AdminUsername = "admin"

// RequireAdmin checks the password half of an HTTP Basic credential against v.
// Every request must carry the credential; there is no session.
func RequireAdmin(v *PasswordVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, password, ok := r.BasicAuth()
			if !ok || !v.Verify(password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "incorrect_password"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
