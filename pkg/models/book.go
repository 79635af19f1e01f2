package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// TotalChaptersExpr selects the highest chapter number stored for a book. The
// value is never persisted on the book row, so it can't drift from the
// chapters table.
const TotalChaptersExpr = "(SELECT COALESCE(MAX(ch.chapter_number), 0) FROM chapters AS ch WHERE ch.book_id = b.id) AS total_chapters"

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	UploadedByID    *int      `json:"uploaded_by_id,omitempty"`
	Title           string    `bun:",nullzero" json:"title"`
	SortTitle       string    `bun:",nullzero" json:"sort_title"`
	Author          string    `bun:",nullzero" json:"author"`
	Category        *string   `json:"category"`
	Description     *string   `json:"description"`
	CoverImageKey   *string   `json:"-"`
	CoverMimeType   *string   `json:"-"`
	PDFKey          *string   `bun:"pdf_key" json:"-"`
	PDFOriginalName *string   `bun:"pdf_original_name" json:"pdf_original_name,omitempty"`
	PDFPageCount    *int      `bun:"pdf_page_count" json:"pdf_page_count,omitempty"`

	// Derived on read, see TotalChaptersExpr.
	TotalChapters int  `bun:",scanonly" json:"total_chapters"`
	HasFullText   bool `bun:"-" json:"has_full_text"`
	HasCover      bool `bun:"-" json:"has_cover"`
	HasPDF        bool `bun:"-" json:"has_pdf"`
}

var _ bun.AfterScanRowHook = (*Book)(nil)

func (b *Book) AfterScanRow(_ context.Context) error {
	b.HasFullText = b.TotalChapters > 0
	b.HasCover = b.CoverImageKey != nil && *b.CoverImageKey != ""
	b.HasPDF = b.PDFKey != nil && *b.PDFKey != ""
	return nil
}
