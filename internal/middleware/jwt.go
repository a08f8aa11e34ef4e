package middleware // reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roomatch/roomatch-backend/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the authenticated user id into the request context. The provided
// secret must match the one used when issuing tokens. Handlers behind this
// middleware read the caller via UserID(c); absence of a valid session is an
// authorization failure and never reaches them.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return authGate(secret, func(c echo.Context, msg string) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
	})
}

// JWTAuthEmptyList validates exactly like JWTAuth but answers auth failures
// with an empty JSON array and 401. The conversation and unread reads use it:
// their clients bind the response body straight into a list, the same shape a
// missing query parameter produces.
func JWTAuthEmptyList(secret string) echo.MiddlewareFunc {
	return authGate(secret, func(c echo.Context, _ string) error {
		return c.JSON(http.StatusUnauthorized, []struct{}{})
	})
}

func authGate(secret string, reject func(echo.Context, string) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return reject(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				return reject(c, "invalid token")
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}
