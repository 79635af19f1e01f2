package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

const (
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
)

// CompletedPercent is the threshold at which a book counts as finished.
const CompletedPercent = 100

type ReadingProgress struct {
	bun.BaseModel `bun:"table:reading_progress,alias:rp"`

	ID              int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	UserID          int       `bun:",notnull" json:"user_id"`
	BookID          int       `bun:",notnull" json:"book_id"`
	LastChapterRead int       `bun:",notnull" json:"last_chapter_read"`
	PercentComplete float64   `bun:",notnull" json:"percent_complete"`

	// Resolved from the books table when listing history. A deleted book
	// leaves these blank.
	BookTitle  string `bun:",scanonly" json:"book_title,omitempty"`
	BookAuthor string `bun:",scanonly" json:"book_author,omitempty"`

	Status string `bun:"-" json:"status"`
}

var _ bun.AfterScanRowHook = (*ReadingProgress)(nil)

func (rp *ReadingProgress) AfterScanRow(_ context.Context) error {
	rp.Status = ProgressStatus(rp.PercentComplete)
	return nil
}

// ProgressStatus maps a completion percentage onto a status. Completion is a
// value range, not a stored state.
func ProgressStatus(percent float64) string {
	if percent >= CompletedPercent {
		return ProgressStatusCompleted
	}
	return ProgressStatusInProgress
}

// DailyCount is a row of a per-day aggregate.
type DailyCount struct {
	Date  string `bun:"date" json:"date"`
	Count int    `bun:"count" json:"count"`
}
