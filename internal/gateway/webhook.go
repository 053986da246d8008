// ABOUTME: Webhook handler implementing the dialog platform fulfillment contract
// ABOUTME: Always answers HTTP 200 with the fixed envelope, whatever happens inside

package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/iapetus-ai/intent-gateway/internal/fulfillment"
	"github.com/iapetus-ai/intent-gateway/internal/router"
	"github.com/iapetus-ai/intent-gateway/internal/store"
)

// ReplyTechnicalIssue is the catch-all apology for unclassified failures.
const ReplyTechnicalIssue = "I'm sorry, I seem to be having a technical issue. Please try again in a moment."

// WebhookRequest mirrors the platform's fulfillment request body.
// Only the fields this service consumes are declared.
type WebhookRequest struct {
	Text       string `json:"text"`
	IntentInfo struct {
		DisplayName string `json:"displayName"`
	} `json:"intentInfo"`
	SessionInfo struct {
		Session    string            `json:"session"`
		Parameters map[string]string `json:"parameters"`
	} `json:"sessionInfo"`
}

// handleWebhook handles POST /webhook requests from the dialog platform.
//
// The contract: whatever happens inside, the platform gets HTTP 200 and a
// well-formed fulfillment envelope. Malformed bodies route as an empty
// request; a panic anywhere in routing is converted to the fixed apology.
func (g *Gateway) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		// Malformed input is not fatal: sentinels take over downstream
		g.logger.Warn("malformed webhook body", "error", err)
	}

	req := router.NewRequest(
		body.IntentInfo.DisplayName,
		body.Text,
		body.SessionInfo.Session,
		body.SessionInfo.Parameters,
	)

	// Fire-and-forget: a failure to log must never cause a failure to respond
	g.auditRequest(r, req)

	reply := g.routeSafely(r, req)

	g.writeEnvelope(w, fulfillment.Format(reply))
}

// routeSafely runs the router with a last-resort recover.
// Anything that escapes the router's own error handling becomes the fixed
// apology rather than a platform-visible failure.
func (g *Gateway) routeSafely(r *http.Request, req router.Request) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("routing panicked", "panic", rec, "intent", req.IntentName)
			reply = ReplyTechnicalIssue
		}
	}()
	return g.router.Route(r.Context(), req)
}

// auditRequest appends the request to the audit log, swallowing any error
// after reporting it.
func (g *Gateway) auditRequest(r *http.Request, req router.Request) {
	rec := &store.AuditRecord{
		SessionID:  req.SessionID,
		IntentName: req.IntentName,
		UserText:   req.UserText,
		Parameters: req.Parameters,
	}
	if err := g.store.AppendAuditRecord(r.Context(), rec); err != nil {
		g.logger.Error("audit append failed", "error", err, "session", req.SessionID)
	}
}

// writeEnvelope serializes the fulfillment envelope with the platform's
// fixed status and content type.
func (g *Gateway) writeEnvelope(w http.ResponseWriter, env fulfillment.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		g.logger.Error("encoding fulfillment response", "error", err)
	}
}
