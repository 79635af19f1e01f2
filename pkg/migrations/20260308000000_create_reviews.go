package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE reviews (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER NOT NULL REFERENCES books (id) ON DELETE CASCADE,
				user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
				user_name TEXT NOT NULL,
				rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
				comment TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		// A user reviews a book at most once.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_reviews_book_user ON reviews (book_id, user_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS reviews")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
