package textimport

import (
	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/chapters"
	"github.com/readloom/readloom/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the import route on an authenticated group mounted
// at the root.
func RegisterRoutes(g *echo.Group, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		importService:  NewService(chapters.NewService(db)),
		maxUploadBytes: cfg.MaxUploadSizeBytes(),
	}

	g.POST("/books/:id/chapters/import", h.importChapters, authMiddleware.RequireAdmin)
}
