package reviews

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers review routes on an authenticated group mounted at
// the root.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{
		reviewService: NewService(db),
	}

	g.GET("/books/:id/reviews", h.list)
	g.POST("/books/:id/reviews", h.create)
	g.POST("/reviews/:id", h.update)
	g.DELETE("/reviews/:id", h.delete)
}
