package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/response"
)

// Recovery is middleware that recovers from panics and returns a 500 error.
// When the response has already started it aborts the connection instead of
// writing a second envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			requestID := GetRequestID(r.Context())
			slog.Error("panic recovered",
				"error", err,
				"requestId", requestID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			if ww.Status() != 0 {
				panic(http.ErrAbortHandler)
			}
			response.Err(ww, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
		}()
		next.ServeHTTP(ww, r)
	})
}
