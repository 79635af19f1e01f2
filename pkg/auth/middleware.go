package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
)

const bearerPrefix = "Bearer "

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate validates the bearer token from the Authorization header and
// stores the user on the context. Requests without a valid token get a 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		// The account may have been removed since the token was issued.
		user, err := m.authService.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return errcodes.Unauthorized("User not found")
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)

		return next(c)
	}
}

// RequireAdmin rejects users without the admin role. Must be used after
// Authenticate.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*models.User)
		if !ok {
			return errcodes.Unauthorized("Authentication required")
		}

		if !user.IsAdmin() {
			return errcodes.Forbidden("This action")
		}

		return next(c)
	}
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get("user").(*models.User)
	if !ok {
		return nil, errcodes.Unauthorized("Authentication required")
	}
	return user, nil
}
