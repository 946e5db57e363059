package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
)

// Recovery converts panics into 500 responses. The stack goes to the
// log, never to the client.
func Recovery(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
