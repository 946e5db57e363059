package utils

import (
	"fmt"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// JWTService signs and validates the actor tokens issued by the
// identity endpoints.
type JWTService struct {
	secretKey []byte
}

func NewJWTService(secretKey string) *JWTService {
	return &JWTService{secretKey: []byte(secretKey)}
}

// GenerateTokenPair returns an access/refresh token pair for the user.
func (j *JWTService) GenerateTokenPair(user *models.User) (accessToken, refreshToken string, expiresAt int64, err error) {
	now := time.Now()

	accessExpiry := now.Add(accessTokenTTL)
	accessToken, err = j.sign(&models.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   "access",
		Exp:    accessExpiry.Unix(),
		Iat:    now.Unix(),
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = j.sign(&models.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   "refresh",
		Exp:    now.Add(refreshTokenTTL).Unix(),
		Iat:    now.Unix(),
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, accessExpiry.Unix(), nil
}

func (j *JWTService) sign(claims *models.TokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// ValidateToken parses and verifies a token of either type.
func (j *JWTService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}
	return claims, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token.
func (j *JWTService) RefreshAccessToken(refreshToken string) (string, int64, error) {
	claims, err := j.ValidateToken(refreshToken)
	if err != nil {
		return "", 0, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.Type != "refresh" {
		return "", 0, fmt.Errorf("invalid token type: expected refresh, got %s", claims.Type)
	}
	now := time.Now()
	expiry := now.Add(accessTokenTTL)
	access, err := j.sign(&models.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Type:   "access",
		Exp:    expiry.Unix(),
		Iat:    now.Unix(),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, expiry.Unix(), nil
}
