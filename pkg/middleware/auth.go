package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/config"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
)

type ContextKey string

const UserContextKey ContextKey = "user"

// AuthMiddleware validates the Bearer access token and stores the
// authenticated user in the request context.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := parseAccessToken(tokenString, cfg.JWTSecret)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user := &models.User{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route subtree to users with the given role. Must
// run after AuthMiddleware.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				utils.WriteUnauthorizedResponse(w, "Authentication required")
				return
			}
			if user.Role != role && user.Role != models.RoleAdmin {
				utils.WriteForbiddenResponse(w, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseAccessToken(tokenString, secret string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Type != "access" {
		return nil, fmt.Errorf("invalid token type: %s", claims.Type)
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}
	return claims, nil
}

// GetUserFromContext returns the authenticated user, if any.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// RequireUser returns the authenticated user or an error for handlers
// that must not run anonymously.
func RequireUser(ctx context.Context) (*models.User, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not authenticated")
	}
	return user, nil
}
