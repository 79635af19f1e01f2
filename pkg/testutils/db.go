// Package testutils holds database fixtures shared by package tests.
package testutils

import (
	"context"
	"testing"

	"github.com/readloom/readloom/pkg/config"
	"github.com/readloom/readloom/pkg/database"
	"github.com/readloom/readloom/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewTestDB opens an in-memory database through database.New with every
// migration applied.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
