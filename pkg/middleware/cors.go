package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/config"
)

// CORS builds the CORS handler from configuration. Development relaxes
// the origin list to everything, which forces credentials off.
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
			http.MethodPatch,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if cfg.IsDevelopment() {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	}

	return cors.Handler(corsOptions)
}
