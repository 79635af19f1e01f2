package database

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/readloom/readloom/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConfig creates a config with a temp file database, so that WAL and
// busy handling behave like they do in production.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(tmpDir, "test.db")
	cfg.DatabaseMaxRetries = 0
	cfg.DatabaseBusyTimeout = 1_000_000 // 1ms
	return cfg
}

// TestConcurrentUpsertsOnSameKey verifies that concurrent upserts against one
// compound key leave exactly one row behind.
func TestConcurrentUpsertsOnSameKey(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE upsert_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		book_id INTEGER NOT NULL,
		value INTEGER NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE UNIQUE INDEX ux_upsert_test ON upsert_test (user_id, book_id)`)
	require.NoError(t, err)

	const numWorkers = 10
	const writesPerWorker = 20

	var wg sync.WaitGroup
	var errorCount atomic.Int32

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < writesPerWorker; i++ {
				_, err := db.Exec(`
					INSERT INTO upsert_test (user_id, book_id, value) VALUES (1, 1, ?)
					ON CONFLICT (user_id, book_id) DO UPDATE SET value = excluded.value
				`, workerID*1000+i)
				if err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()

	assert.Equal(t, int32(0), errorCount.Load(), "concurrent upserts should not produce errors")

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM upsert_test").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "upserts on one key must never duplicate the row")
}

// TestConcurrentInsertsOnSameKeyConflict verifies that concurrent plain inserts
// against one unique key produce exactly one winner and unique violations for
// everyone else.
func TestConcurrentInsertsOnSameKeyConflict(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE insert_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id INTEGER NOT NULL,
		chapter_number INTEGER NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE UNIQUE INDEX ux_insert_test ON insert_test (book_id, chapter_number)`)
	require.NoError(t, err)

	const numWorkers = 8

	var wg sync.WaitGroup
	var successes atomic.Int32
	var conflicts atomic.Int32
	unexpected := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.Exec("INSERT INTO insert_test (book_id, chapter_number) VALUES (1, 7)")
			switch {
			case err == nil:
				successes.Add(1)
			case IsUniqueViolation(err):
				conflicts.Add(1)
			default:
				unexpected <- fmt.Errorf("unexpected error: %w", err)
			}
		}()
	}

	wg.Wait()
	close(unexpected)

	for err := range unexpected {
		t.Error(err)
	}
	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(numWorkers-1), conflicts.Load())
}
