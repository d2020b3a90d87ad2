package server

import (
	"net/http"
	"strings"

	"github.com/anicoll/mhihvac-integration/pkg/hasher"
	"go.uber.org/zap"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	logger := zap.L()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware guards the control API with a static bearer secret,
// compared against its bcrypt hash. An empty hash disables the check.
func AuthMiddleware(secretHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretHash == "" {
				next.ServeHTTP(w, r)
				return
			}
			secret := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if secret == "" || !hasher.SecretCorrect(secret, secretHash) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
