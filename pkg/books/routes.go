package books

import (
	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a group that already
// requires authentication.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, files FileRemover) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
		files:       files,
	}

	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.RequireAdmin)
	g.GET("/:id", h.retrieve)
	g.POST("/:id", h.update, authMiddleware.RequireAdmin)
	g.DELETE("/:id", h.delete, authMiddleware.RequireAdmin)
}
