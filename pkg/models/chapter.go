package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	BookID        int       `bun:",notnull" json:"book_id"`
	ChapterNumber int       `bun:",notnull" json:"chapter_number"`
	Title         string    `bun:",notnull" json:"title"`
	// Content is left out of list queries, so it's omitted when empty.
	Content   string `bun:",notnull" json:"content,omitempty"`
	WordCount int    `bun:",notnull" json:"word_count"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id" json:"-"`
}

// CountWords counts runs of non-whitespace characters.
func CountWords(content string) int {
	return len(strings.Fields(content))
}
