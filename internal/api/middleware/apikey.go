package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/response"
)

// APIKeyHeader carries the process-wide client key.
const APIKeyHeader = "X-API-KEY"

// APIKey gates every request behind X-API-KEY. The key is compared with
// plain when set, otherwise with the bcrypt hash. Preflight requests, the
// root path and /debug/ paths are let through. With neither secret
// configured the gate is disabled.
func APIKey(plain, hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if plain == "" && hash == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypassAPIKey(r) || validAPIKey(r.Header.Get(APIKeyHeader), plain, hash) {
				next.ServeHTTP(w, r)
				return
			}
			response.JSON(w, http.StatusForbidden, response.Envelope{
				Meta: response.Meta{
					Status:    http.StatusForbidden,
					ErrorCode: "INVALID_API_KEY",
					RequestID: GetRequestID(r.Context()),
				},
			})
		})
	}
}

func bypassAPIKey(r *http.Request) bool {
	return r.Method == http.MethodOptions ||
		r.URL.Path == "/" ||
		strings.HasPrefix(r.URL.Path, "/debug/")
}

func validAPIKey(got, plain, hash string) bool {
	if got == "" {
		return false
	}
	if plain != "" {
		return subtle.ConstantTimeCompare([]byte(got), []byte(plain)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(got)) == nil
}
