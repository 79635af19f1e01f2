package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/binder"
	"github.com/readloom/readloom/pkg/books"
	"github.com/readloom/readloom/pkg/chapters"
	"github.com/readloom/readloom/pkg/config"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/progress"
	"github.com/readloom/readloom/pkg/reviews"
	"github.com/readloom/readloom/pkg/stats"
	"github.com/readloom/readloom/pkg/textimport"
	"github.com/readloom/readloom/pkg/uploads"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, store uploads.Store) (*http.Server, error) {
	e, err := newEcho(cfg, db, store)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, store uploads.Store) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())
	// Multipart framing adds a little on top of the file itself.
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadSizeMB+1)))

	health.RegisterRoutes(e)

	authService := auth.NewService(db, cfg.JWTSecret, cfg.TokenExpiry)
	authMiddleware := auth.NewMiddleware(authService)
	auth.RegisterRoutes(e, authService, authMiddleware)

	registerProtectedRoutes(e, db, cfg, store, authService, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerProtectedRoutes registers the routes that need a signed in user.
// Writes to the catalog additionally need an admin, which each package
// enforces per route.
func registerProtectedRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, store uploads.Store, authService *auth.Service, authMiddleware *auth.Middleware) {
	// Books routes
	booksGroup := e.Group("/books")
	booksGroup.Use(authMiddleware.Authenticate)
	books.RegisterRoutesWithGroup(booksGroup, db, authMiddleware, store)
	uploads.RegisterRoutesWithGroup(booksGroup, db, cfg, store, authMiddleware)

	// Chapters, imports and reviews span /books/:id/... and their own roots.
	rootGroup := e.Group("")
	rootGroup.Use(authMiddleware.Authenticate)
	chapters.RegisterRoutes(rootGroup, db, authMiddleware)
	textimport.RegisterRoutes(rootGroup, db, cfg, authMiddleware)
	reviews.RegisterRoutes(rootGroup, db)

	// User avatar routes
	usersGroup := e.Group("/users")
	usersGroup.Use(authMiddleware.Authenticate)
	uploads.RegisterUserRoutesWithGroup(usersGroup, cfg, store, authService)

	// Progress routes
	progressGroup := e.Group("/progress")
	progressGroup.Use(authMiddleware.Authenticate)
	progress.RegisterRoutesWithGroup(progressGroup, db)

	// Admin stats routes
	statsGroup := e.Group("/admin/stats")
	statsGroup.Use(authMiddleware.Authenticate)
	statsGroup.Use(authMiddleware.RequireAdmin)
	stats.RegisterRoutesWithGroup(statsGroup, db, authService)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
