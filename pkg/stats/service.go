package stats

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
)

const dateLayout = "2006-01-02"

// MaxRangeDays bounds the width of a requested date range.
const MaxRangeDays = 366

type chaptersReadCounter interface {
	ChaptersReadByDate(ctx context.Context, from, to string) ([]*models.DailyCount, error)
}

type loginCounter interface {
	LoginsByDate(ctx context.Context, from, to string) ([]*models.DailyCount, error)
}

type Service struct {
	progress chaptersReadCounter
	logins   loginCounter
}

func NewService(progress chaptersReadCounter, logins loginCounter) *Service {
	return &Service{progress, logins}
}

// MonthRange returns the first and last day of the UTC month containing now.
func MonthRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// ChaptersRead counts progress updates per day between from and to,
// inclusive.
func (svc *Service) ChaptersRead(ctx context.Context, from, to time.Time) ([]*models.DailyCount, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	counts, err := svc.progress.ChaptersReadByDate(ctx, from.Format(dateLayout), to.Format(dateLayout))
	return counts, errors.WithStack(err)
}

// Logins counts logins per day over the last days days, ending with the day
// of now.
func (svc *Service) Logins(ctx context.Context, days int, now time.Time) ([]*models.DailyCount, error) {
	if days < 1 || days > MaxRangeDays {
		return nil, errcodes.ValidationError("\"days\" must be between 1 and 366")
	}
	to := now.UTC()
	from := to.AddDate(0, 0, -(days - 1))
	counts, err := svc.logins.LoginsByDate(ctx, from.Format(dateLayout), to.Format(dateLayout))
	return counts, errors.WithStack(err)
}

func checkRange(from, to time.Time) error {
	if to.Before(from) {
		return errcodes.ValidationError("\"from\" must not be after \"to\"")
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return errcodes.ValidationError("The date range can't be longer than 366 days.")
	}
	return nil
}
