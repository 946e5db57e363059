package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleLandlord UserRole = "landlord"
	RoleTenant   UserRole = "tenant"
	RoleAdmin    UserRole = "admin"
)

// User is an authenticated actor. Role decides which side of the
// workflow the user may drive.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password_hash"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsLandlord() bool { return u.Role == RoleLandlord || u.Role == RoleAdmin }

// TokenClaims carries the actor identity inside JWTs.
type TokenClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Type   string   `json:"type"` // "access" or "refresh"
	Exp    int64    `json:"exp"`
	Iat    int64    `json:"iat"`
}

func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}
func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}
func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c *TokenClaims) GetIssuer() (string, error)              { return "", nil }
func (c *TokenClaims) GetSubject() (string, error)             { return c.UserID, nil }
func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }
