package progress

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers progress routes on an authenticated
// group. Every route acts on the current user's records.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		progressService: NewService(db),
	}

	g.POST("", h.record)
	g.GET("", h.list)
	g.GET("/:bookId", h.retrieve)
}
