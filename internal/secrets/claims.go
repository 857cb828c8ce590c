package secrets

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the API's access-token claims the client displays.
// The signature is never checked here; the API does that on every request.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	UserType string `json:"user_type,omitempty"`
	UserID   any    `json:"user_id,omitempty"`
}

// ParseClaims decodes the payload of a bearer token without verifying it.
func ParseClaims(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}

	return claims, nil
}

// AccountRole returns "employer" or "employee" when the token carries it.
func (c *Claims) AccountRole() string {
	if role := strings.ToLower(strings.TrimSpace(c.Role)); role != "" {
		return role
	}
	return strings.ToLower(strings.TrimSpace(c.UserType))
}

// Identity returns the best available display identity for the token owner.
func (c *Claims) Identity() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.Subject != "":
		return c.Subject
	case c.UserID != nil:
		return fmt.Sprintf("%v", c.UserID)
	default:
		return ""
	}
}

// ExpiredAt reports whether the token is expired at now. Tokens without exp
// never expire from the client's point of view.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}
