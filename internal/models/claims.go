package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the decoded token payload. UserID mirrors the `userId` claim issued by the
// client auth flow; tokens that only carry the registered `sub` claim are accepted too.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user identifier carried by the token, preferring `userId` over `sub`.
func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
