// ABOUTME: Shared test helpers for the store package
// ABOUTME: Provides a temp-file SQLite store with automatic cleanup

package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func generateTestID(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}
