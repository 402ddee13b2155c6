package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens issued by the hub's
// identity service. This API only validates them; it never issues logins.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// RequestContext identifies the authenticated actor behind a request. Services
// take it explicitly rather than reading ambient session state, so ownership
// checks are visible at every call site.
type RequestContext struct {
	UserID   string
	Role     UserRole
	FullName string
}

// Actor converts validated claims into a request context.
func (c *JWTClaims) Actor() RequestContext {
	return RequestContext{UserID: c.UserID, Role: c.Role, FullName: c.FullName}
}
