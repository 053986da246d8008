// ABOUTME: Audit log entity store methods for recording every inbound webhook request
// ABOUTME: Append-only with server-assigned timestamps; listing supports time/session/intent filters

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppendAuditRecord appends a new record to the audit log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendAuditRecord(ctx context.Context, rec *AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	var paramsJSON *string
	if rec.Parameters != nil {
		data, err := json.Marshal(rec.Parameters)
		if err != nil {
			return fmt.Errorf("marshaling audit parameters: %w", err)
		}
		str := string(data)
		paramsJSON = &str
	}

	query := `
		INSERT INTO audit_log (audit_id, session_id, intent_name, user_text, parameters_json, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.IntentName,
		rec.UserText,
		paramsJSON,
		rec.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}

	s.logger.Debug("appended audit record",
		"id", rec.ID,
		"session", rec.SessionID,
		"intent", rec.IntentName,
	)
	return nil
}

// normalizeAuditLimit applies default (100) and cap (1000) to audit limit.
func normalizeAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

const auditLogQuery = `
	SELECT audit_id, session_id, intent_name, user_text, parameters_json, ts
	FROM audit_log
	WHERE (? IS NULL OR ts >= ?)
	  AND (? IS NULL OR ts <= ?)
	  AND (? IS NULL OR session_id = ?)
	  AND (? IS NULL OR intent_name = ?)
	ORDER BY ts DESC
	LIMIT ?
`

// ListAuditRecords returns audit records matching the filter criteria.
// Results are returned newest first (DESC by timestamp).
func (s *SQLiteStore) ListAuditRecords(ctx context.Context, f AuditFilter) ([]AuditRecord, error) {
	limit := normalizeAuditLimit(f.Limit)

	var sinceStr, untilStr *string
	if f.Since != nil {
		v := f.Since.UTC().Format(time.RFC3339)
		sinceStr = &v
	}
	if f.Until != nil {
		v := f.Until.UTC().Format(time.RFC3339)
		untilStr = &v
	}

	rows, err := s.db.QueryContext(ctx, auditLogQuery,
		sinceStr, sinceStr,
		untilStr, untilStr,
		f.SessionID, f.SessionID,
		f.IntentName, f.IntentName,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []AuditRecord
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit records: %w", err)
	}

	if records == nil {
		records = []AuditRecord{}
	}
	return records, nil
}

// scanAuditRecord scans a row into an AuditRecord.
func scanAuditRecord(scanner interface{ Scan(dest ...any) error }) (AuditRecord, error) {
	var rec AuditRecord
	var tsStr string
	var paramsJSON *string

	if err := scanner.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.IntentName,
		&rec.UserText,
		&paramsJSON,
		&tsStr,
	); err != nil {
		return rec, fmt.Errorf("scanning audit record: %w", err)
	}

	var err error
	rec.Timestamp, err = time.Parse(time.RFC3339, tsStr)
	if err != nil {
		return rec, fmt.Errorf("parsing timestamp: %w", err)
	}

	if paramsJSON != nil {
		if err := json.Unmarshal([]byte(*paramsJSON), &rec.Parameters); err != nil {
			return rec, fmt.Errorf("unmarshaling parameters: %w", err)
		}
	}
	return rec, nil
}
