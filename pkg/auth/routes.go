package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the auth routes.
func RegisterRoutes(e *echo.Echo, authService *Service, authMiddleware *Middleware) {
	h := &handler{
		authService: authService,
	}

	auth := e.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/login", h.login)
	auth.GET("/me", h.me, authMiddleware.Authenticate)
}
