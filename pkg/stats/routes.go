package stats

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/readloom/readloom/pkg/auth"
	"github.com/readloom/readloom/pkg/progress"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the stats routes on a group that already
// requires an admin.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authService *auth.Service) {
	h := &handler{
		statsService: NewService(progress.NewService(db), authService),
		now:          time.Now,
	}

	g.GET("/chapters-read", h.chaptersRead)
	g.GET("/logins", h.logins)
}
