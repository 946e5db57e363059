package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
)

// AuthHandler implements register, login and token refresh.
type AuthHandler struct {
	store database.Store
	jwt   *utils.JWTService
}

func NewAuthHandler(store database.Store, jwt *utils.JWTService) *AuthHandler {
	return &AuthHandler{store: store, jwt: jwt}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    int64        `json:"expires_at"`
}

// Register creates a user with the given role and returns a token pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.WriteBadRequestResponse(w, "Email and password are required")
		return
	}
	role := models.UserRole(req.Role)
	if role != models.RoleLandlord && role != models.RoleTenant {
		utils.WriteBadRequestResponse(w, "Role must be landlord or tenant")
		return
	}

	if existing, err := h.store.GetUserByEmail(req.Email); err == nil && existing != nil {
		utils.WriteConflictResponse(w, "Email is already registered")
		return
	} else if err != nil && !errors.Is(err, database.ErrNotFound) {
		utils.WriteInternalServerErrorResponse(w, "Failed to check existing user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to hash password")
		return
	}
	user := &models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
		Role:     role,
	}
	if err := h.store.CreateUser(user); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create user")
		return
	}

	access, refresh, expiresAt, err := h.jwt.GenerateTokenPair(user)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to issue tokens")
		return
	}
	utils.WriteCreatedResponse(w, tokenResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	user, err := h.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid email or password")
		return
	}
	access, refresh, expiresAt, err := h.jwt.GenerateTokenPair(user)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to issue tokens")
		return
	}
	utils.WriteSuccessResponse(w, tokenResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.RefreshToken == "" {
		utils.WriteBadRequestResponse(w, "refresh_token is required")
		return
	}
	access, expiresAt, err := h.jwt.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid refresh token")
		return
	}
	utils.WriteSuccessResponse(w, tokenResponse{
		AccessToken: access,
		ExpiresAt:   expiresAt,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	user, err := h.store.GetUserByID(actor.ID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "User not found")
		return
	}
	utils.WriteSuccessResponse(w, user)
}
