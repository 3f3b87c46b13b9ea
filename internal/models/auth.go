package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload minted by the identity
// provider. The service only verifies and reads it.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	ProfileID string   `json:"profile_id,omitempty"`
	FullName  string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}
