package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the roles a token may carry.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	StudentID string   `json:"student_id"`
	Role      UserRole `json:"role"`
	jwt.RegisteredClaims
}
