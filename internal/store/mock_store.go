// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite and to inject collaborator failures

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	entries []*KnowledgeEntry // insertion order
	audit   []AuditRecord

	// FailAppend makes AppendAuditRecord return this error when set.
	FailAppend error
	// FailList makes ListKnowledgeEntries return this error when set.
	FailList error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// ListKnowledgeEntries returns all complete entries in insertion order.
func (m *MockStore) ListKnowledgeEntries(ctx context.Context) ([]*KnowledgeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailList != nil {
		return nil, m.FailList
	}

	out := []*KnowledgeEntry{}
	for _, e := range m.entries {
		if e.Question == "" || e.Answer == "" {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

// GetKnowledgeEntry retrieves an entry by ID.
func (m *MockStore) GetKnowledgeEntry(ctx context.Context, id string) (*KnowledgeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// PutKnowledgeEntry inserts or updates an entry.
func (m *MockStore) PutKnowledgeEntry(ctx context.Context, entry *KnowledgeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	for i, e := range m.entries {
		if e.ID == entry.ID {
			c := *entry
			m.entries[i] = &c
			return nil
		}
	}

	c := *entry
	m.entries = append(m.entries, &c)
	return nil
}

// DeleteKnowledgeEntry removes an entry by ID.
func (m *MockStore) DeleteKnowledgeEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// AppendAuditRecord stores an audit record.
func (m *MockStore) AppendAuditRecord(ctx context.Context, rec *AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppend != nil {
		return m.FailAppend
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	m.audit = append(m.audit, *rec)
	return nil
}

// ListAuditRecords returns records matching the filter, newest first.
func (m *MockStore) ListAuditRecords(ctx context.Context, f AuditFilter) ([]AuditRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := normalizeAuditLimit(f.Limit)

	out := []AuditRecord{}
	for _, rec := range m.audit {
		if f.Since != nil && rec.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Until != nil && rec.Timestamp.After(*f.Until) {
			continue
		}
		if f.SessionID != nil && rec.SessionID != *f.SessionID {
			continue
		}
		if f.IntentName != nil && rec.IntentName != *f.IntentName {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AuditRecords returns a copy of all stored audit records, oldest first.
func (m *MockStore) AuditRecords() []AuditRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AuditRecord, len(m.audit))
	copy(out, m.audit)
	return out
}

// Ping always succeeds.
func (m *MockStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
