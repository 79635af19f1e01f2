package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/readloom/readloom/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plain text password of every user created by
// CreateUser.
const FixturePassword = "correct-horse"

var userSeq atomic.Int64

// CreateUser inserts a user with the given role and FixturePassword.
func CreateUser(t *testing.T, db *bun.DB, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	require.NoError(t, err)

	n := userSeq.Add(1)
	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        fmt.Sprintf("reader%d@example.com", n),
		Name:         fmt.Sprintf("Reader %d", n),
		PasswordHash: string(hash),
		Role:         role,
	}
	_, err = db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)

	return user
}

// CreateBook inserts a book with the given title.
func CreateBook(t *testing.T, db *bun.DB, title string) *models.Book {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		SortTitle: title,
		Author:    "Test Author",
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)

	return book
}

// CreateChapters inserts chapters with the given numbers for a book. Titles
// and content are derived from the number.
func CreateChapters(t *testing.T, db *bun.DB, bookID int, numbers ...int) []*models.Chapter {
	t.Helper()

	now := time.Now()
	chapters := make([]*models.Chapter, 0, len(numbers))
	for _, n := range numbers {
		content := strings.Repeat(fmt.Sprintf("word%d ", n), 3)
		chapters = append(chapters, &models.Chapter{
			CreatedAt:     now,
			UpdatedAt:     now,
			BookID:        bookID,
			ChapterNumber: n,
			Title:         fmt.Sprintf("Chapter %d", n),
			Content:       content,
			WordCount:     models.CountWords(content),
		})
	}
	if len(chapters) == 0 {
		return chapters
	}

	_, err := db.NewInsert().Model(&chapters).Exec(context.Background())
	require.NoError(t, err)

	return chapters
}
