// Package store provides persistent storage for the gateway using SQLite.
//
// Two interfaces cover the gateway's needs:
//
//   - KnowledgeStore: the client-editable question/answer set backing the
//     fuzzy fallback. Reads return a best-effort snapshot; there is no cache,
//     so edits made by an external editor are visible on the next lookup.
//   - AuditStore: an append-only log of every inbound webhook request.
//
// SQLiteStore implements both in a single struct. The database runs in WAL
// mode with foreign keys enabled, and the schema is created automatically on
// open.
//
// Use NewMockStore() for unit tests; it implements the same interfaces in
// memory and can inject failures (FailAppend, FailList) to exercise the
// gateway's swallow-and-continue error paths. Use NewSQLiteStore(":memory:")
// for integration tests against real SQLite.
package store
