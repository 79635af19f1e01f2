package uploads

import (
	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/books"
	"github.com/readloom/readloom/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers file routes on the authenticated books
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, store Store, authMiddleware *auth.Middleware) {
	h := &handler{
		uploadService:  NewService(books.NewService(db), store),
		maxUploadBytes: cfg.MaxUploadSizeBytes(),
	}

	g.GET("/:id/pdf", h.servePDF)
	g.POST("/:id/pdf", h.uploadPDF, authMiddleware.RequireAdmin)
	g.GET("/:id/cover", h.serveCover)
	g.POST("/:id/cover", h.uploadCover, authMiddleware.RequireAdmin)
}

// RegisterUserRoutesWithGroup registers avatar routes on the authenticated
// users group.
func RegisterUserRoutesWithGroup(g *echo.Group, cfg *config.Config, store Store, authService *auth.Service) {
	h := &handler{
		avatarService:  NewAvatarService(authService, store),
		maxUploadBytes: cfg.MaxUploadSizeBytes(),
	}

	g.POST("/me/avatar", h.uploadAvatar)
	g.GET("/:id/avatar", h.serveAvatar)
}
