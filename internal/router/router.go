package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/roomatch/roomatch-backend/internal/handler"
	"github.com/roomatch/roomatch-backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the protected /v1
// group. Unauthenticated operations (register, login, refresh, logout) live
// under /v1/auth; everything else requires a valid access token and goes
// through the JWTAuth middleware, so handlers can rely on a resolved caller.
// The limiter runs after JWTAuth on the protected group so its keys carry the
// caller's id rather than "guest".
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) *echo.Group {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), limiter)
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout_all", a.LogoutAll)
	return auth
}

// RegisterAPI registers the roommate-matching API. Most routes sit on the
// protected group; the two conversation reads are registered individually
// because an unauthenticated call to them answers with an empty array rather
// than an error object.
func RegisterAPI(e *echo.Echo, auth *echo.Group, u *handler.UserHandler, p *handler.PreferenceHandler, m *handler.MatchHandler, ch *handler.ChatHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	auth.PUT("/me", u.UpdateProfile)
	auth.GET("/users", u.List)
	auth.GET("/users/:id", u.Get)

	auth.GET("/preferences", p.Get)
	auth.POST("/preferences", p.Save)

	auth.GET("/matches", m.List)

	e.GET("/v1/messages", ch.Conversation, middleware.JWTAuthEmptyList(jwtSecret), limiter)
	e.GET("/v1/messages/unread", ch.Unread, middleware.JWTAuthEmptyList(jwtSecret), limiter)
	auth.POST("/messages", ch.Post)
	auth.GET("/chat/partners", ch.Partners)
}

// RegisterWS registers the realtime websocket endpoint. It authenticates via
// a token query parameter inside the handler, outside the JWT middleware.
func RegisterWS(e *echo.Echo, ws *handler.WSHandler) {
	e.GET("/ws", ws.Serve)
}
