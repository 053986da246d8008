// ABOUTME: Store interfaces and data types for intent-gateway persistence
// ABOUTME: Defines KnowledgeEntry, AuditRecord and the store interfaces for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// KnowledgeEntry is a single question/answer pair in the knowledge base.
// The set is owned by an external editor and may change between any two reads.
type KnowledgeEntry struct {
	ID        string
	Question  string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditRecord is one immutable log entry for an inbound webhook request.
type AuditRecord struct {
	ID         string            // UUID v4, assigned on append if empty
	SessionID  string            // upstream session identifier
	IntentName string            // intent display name as received
	UserText   string            // raw user utterance
	Parameters map[string]string // session parameters at time of request
	Timestamp  time.Time         // server-assigned, UTC
}

// AuditFilter specifies filtering options for listing audit records.
type AuditFilter struct {
	Since      *time.Time // records after this time
	Until      *time.Time // records before this time
	SessionID  *string    // filter by session
	IntentName *string    // filter by intent name
	Limit      int        // max results (default 100, max 1000)
}

// KnowledgeStore provides read and edit access to the knowledge base.
type KnowledgeStore interface {
	// ListKnowledgeEntries returns every valid entry in insertion order.
	// Entries missing either question or answer are skipped silently.
	// An empty knowledge base yields an empty slice, not an error.
	ListKnowledgeEntries(ctx context.Context) ([]*KnowledgeEntry, error)

	GetKnowledgeEntry(ctx context.Context, id string) (*KnowledgeEntry, error)

	// PutKnowledgeEntry inserts or updates an entry. Generates ID if not set.
	PutKnowledgeEntry(ctx context.Context, entry *KnowledgeEntry) error

	DeleteKnowledgeEntry(ctx context.Context, id string) error
}

// AuditStore provides append-only request logging.
type AuditStore interface {
	// AppendAuditRecord adds a record to the audit log.
	// Generates ID and Timestamp if not set.
	AppendAuditRecord(ctx context.Context, rec *AuditRecord) error

	// ListAuditRecords returns records matching the filter, newest first.
	ListAuditRecords(ctx context.Context, f AuditFilter) ([]AuditRecord, error)
}

// Store is the full persistence interface backing the gateway.
type Store interface {
	KnowledgeStore
	AuditStore

	// Ping verifies the underlying store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
