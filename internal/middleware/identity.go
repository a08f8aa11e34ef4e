package middleware

// identity.go defines helpers shared across middleware files and handlers:
// extraction of the authenticated user id that JWTAuth stored in the Echo
// context.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated caller's id, or 0 when the request did
// not pass through JWTAuth. Behind the auth group a zero return is
// impossible.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// currentUserID renders the caller's id for rate-limit keys, "guest" when
// unauthenticated.
func currentUserID(c echo.Context) string {
	if uid := UserID(c); uid != 0 {
		return strconv.FormatUint(uid, 10)
	}
	return "guest"
}
