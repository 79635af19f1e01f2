package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rv"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookID    int       `bun:",notnull" json:"book_id"`
	UserID    int       `bun:",notnull" json:"user_id"`
	UserName  string    `bun:",notnull" json:"user_name"`
	Rating    int       `bun:",notnull" json:"rating"`
	Comment   *string   `json:"comment"`
}
