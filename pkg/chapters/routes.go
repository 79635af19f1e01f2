package chapters

import (
	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the chapter routes on an authenticated group
// mounted at the root.
func RegisterRoutes(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		chapterService: NewService(db),
	}

	g.GET("/books/:id/chapters", h.list)
	g.POST("/books/:id/chapters", h.create, authMiddleware.RequireAdmin)
	g.POST("/books/:id/chapters/bulk", h.bulkInsert, authMiddleware.RequireAdmin)
	g.GET("/books/:id/chapters/:number", h.retrieveByNumber)

	g.GET("/chapters/:id", h.retrieve)
	g.POST("/chapters/:id", h.update, authMiddleware.RequireAdmin)
	g.DELETE("/chapters/:id", h.delete, authMiddleware.RequireAdmin)
}
