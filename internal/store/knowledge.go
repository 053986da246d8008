// ABOUTME: Knowledge-base entry store methods for the client-editable question/answer set
// ABOUTME: Reads skip incomplete rows; writes are upserts so an external editor can replace answers

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ListKnowledgeEntries returns every complete entry in insertion order.
// Rows with an empty question or answer are skipped silently: the set is
// edited by hand and a half-filled row must not break the fallback path.
func (s *SQLiteStore) ListKnowledgeEntries(ctx context.Context) ([]*KnowledgeEntry, error) {
	query := `
		SELECT id, question, answer, created_at, updated_at
		FROM knowledge_entries
		ORDER BY rowid
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []*KnowledgeEntry{}
	for rows.Next() {
		e, err := scanKnowledgeEntry(rows)
		if err != nil {
			return nil, err
		}
		if e.Question == "" || e.Answer == "" {
			s.logger.Debug("skipping incomplete knowledge entry", "id", e.ID)
			continue
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating knowledge entries: %w", err)
	}
	return entries, nil
}

// GetKnowledgeEntry retrieves an entry by ID.
func (s *SQLiteStore) GetKnowledgeEntry(ctx context.Context, id string) (*KnowledgeEntry, error) {
	query := `
		SELECT id, question, answer, created_at, updated_at
		FROM knowledge_entries
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	e, err := scanKnowledgeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PutKnowledgeEntry inserts or updates an entry.
// Generates ID and CreatedAt if not set; UpdatedAt is always refreshed.
func (s *SQLiteStore) PutKnowledgeEntry(ctx context.Context, entry *KnowledgeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	query := `
		INSERT INTO knowledge_entries (id, question, answer, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Question,
		entry.Answer,
		entry.CreatedAt.UTC().Format(time.RFC3339),
		entry.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting knowledge entry: %w", err)
	}

	s.logger.Debug("stored knowledge entry", "id", entry.ID, "question", entry.Question)
	return nil
}

// DeleteKnowledgeEntry removes an entry by ID.
// Returns ErrNotFound if no entry with that ID exists.
func (s *SQLiteStore) DeleteKnowledgeEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting knowledge entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanKnowledgeEntry scans a row into a KnowledgeEntry.
func scanKnowledgeEntry(scanner interface{ Scan(dest ...any) error }) (*KnowledgeEntry, error) {
	var e KnowledgeEntry
	var createdStr, updatedStr string

	if err := scanner.Scan(&e.ID, &e.Question, &e.Answer, &createdStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning knowledge entry: %w", err)
	}

	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
