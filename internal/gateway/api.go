// ABOUTME: Operator HTTP API for the client-managed knowledge base and audit log
// ABOUTME: JSON CRUD endpoints; unlike the webhook, these surface real status codes

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iapetus-ai/intent-gateway/internal/store"
)

// KnowledgeEntryRequest is the JSON request body for PUT /api/knowledge.
type KnowledgeEntryRequest struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KnowledgeEntryResponse is the JSON representation of a knowledge entry.
type KnowledgeEntryResponse struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListKnowledgeResponse is the JSON response for GET /api/knowledge.
type ListKnowledgeResponse struct {
	Entries []KnowledgeEntryResponse `json:"entries"`
}

// AuditRecordResponse is the JSON representation of an audit record.
type AuditRecordResponse struct {
	ID         string            `json:"id"`
	SessionID  string            `json:"session_id"`
	IntentName string            `json:"intent_name"`
	UserText   string            `json:"user_text"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

// ListAuditResponse is the JSON response for GET /api/audit.
type ListAuditResponse struct {
	Records []AuditRecordResponse `json:"records"`
}

// sendJSONError writes a JSON error response with the given status code.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func knowledgeEntryResponse(e *store.KnowledgeEntry) KnowledgeEntryResponse {
	return KnowledgeEntryResponse{
		ID:        e.ID,
		Question:  e.Question,
		Answer:    e.Answer,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleKnowledge handles GET (list) and PUT (upsert) on /api/knowledge.
func (g *Gateway) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		g.listKnowledge(w, r)
	case http.MethodPut, http.MethodPost:
		g.putKnowledge(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (g *Gateway) listKnowledge(w http.ResponseWriter, r *http.Request) {
	entries, err := g.store.ListKnowledgeEntries(r.Context())
	if err != nil {
		g.logger.Error("listing knowledge entries", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := ListKnowledgeResponse{Entries: make([]KnowledgeEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, knowledgeEntryResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (g *Gateway) putKnowledge(w http.ResponseWriter, r *http.Request) {
	var req KnowledgeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		g.sendJSONError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	entry := &store.KnowledgeEntry{
		ID:       req.ID,
		Question: req.Question,
		Answer:   req.Answer,
	}
	if err := g.store.PutKnowledgeEntry(r.Context(), entry); err != nil {
		g.logger.Error("storing knowledge entry", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(knowledgeEntryResponse(entry))
}

// handleKnowledgeByID handles GET and DELETE on /api/knowledge/{id}.
func (g *Gateway) handleKnowledgeByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/knowledge/")
	if id == "" {
		g.sendJSONError(w, http.StatusBadRequest, "entry id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := g.store.GetKnowledgeEntry(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "entry not found")
			return
		}
		if err != nil {
			g.logger.Error("getting knowledge entry", "error", err)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(knowledgeEntryResponse(entry))

	case http.MethodDelete:
		err := g.store.DeleteKnowledgeEntry(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "entry not found")
			return
		}
		if err != nil {
			g.logger.Error("deleting knowledge entry", "error", err)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAuditList handles GET /api/audit with optional filters:
// ?session_id=X&intent=Y&limit=N
func (g *Gateway) handleAuditList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var f store.AuditFilter
	if v := r.URL.Query().Get("session_id"); v != "" {
		f.SessionID = &v
	}
	if v := r.URL.Query().Get("intent"); v != "" {
		f.IntentName = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			g.sendJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = limit
	}

	records, err := g.store.ListAuditRecords(r.Context(), f)
	if err != nil {
		g.logger.Error("listing audit records", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := ListAuditResponse{Records: make([]AuditRecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, AuditRecordResponse{
			ID:         rec.ID,
			SessionID:  rec.SessionID,
			IntentName: rec.IntentName,
			UserText:   rec.UserText,
			Parameters: rec.Parameters,
			Timestamp:  rec.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
