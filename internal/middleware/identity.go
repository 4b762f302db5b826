package middleware

// identity.go defines helper functions shared across middleware files. It
// provides a user identifier lookup used by the rate limiter to build
// per-user bucket keys. JWTAuth stores the subject claim under "user_id";
// when the route is public (no token) the caller is treated as anonymous.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from the Echo context. The
// subject claim may arrive as a string or a JSON number depending on how
// the token was minted, so both are handled. Returns "anon" when no user
// is authenticated.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	}
	return "anon"
}
