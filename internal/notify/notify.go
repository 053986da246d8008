// ABOUTME: Notification dispatcher for sales handoff and lead capture events
// ABOUTME: Posts to a CRM webhook with a Bearer key, or simulates delivery when no URL is set

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Payload carries the handoff details sent to the sales channel.
type Payload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Context  string `json:"context"`
}

// Dispatcher sends handoff notifications to an external channel.
// Notify returns true only when the notification was delivered.
type Dispatcher interface {
	Notify(ctx context.Context, p Payload) bool
}

// CRMDispatcher delivers notifications to a CRM webhook endpoint.
// When WebhookURL is empty, delivery is simulated with a log emission so the
// conversational flow can be exercised without a live CRM.
type CRMDispatcher struct {
	// APIKey is the CRM credential. An empty key fails every dispatch.
	APIKey string

	// WebhookURL is the CRM endpoint. Empty selects simulated delivery.
	WebhookURL string

	// Client is the HTTP client for webhook delivery. Nil selects a
	// default client with a 10s timeout.
	Client *http.Client

	Logger *slog.Logger
}

// NewCRMDispatcher creates a dispatcher for the given credential and endpoint.
func NewCRMDispatcher(apiKey, webhookURL string, logger *slog.Logger) *CRMDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CRMDispatcher{
		APIKey:     apiKey,
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
		Logger:     logger.With("component", "notify"),
	}
}

// Notify sends a single notification attempt. There are no retries: a
// missing credential, transport error, or non-2xx response all yield false,
// and the caller decides the user-facing message.
func (d *CRMDispatcher) Notify(ctx context.Context, p Payload) bool {
	if d.APIKey == "" {
		d.Logger.Error("CRM API key is missing, handoff failed",
			"full_name", p.FullName,
		)
		return false
	}

	if d.WebhookURL == "" {
		return d.simulate(p)
	}

	body, err := json.Marshal(p)
	if err != nil {
		d.Logger.Error("marshaling notification payload", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.WebhookURL, bytes.NewReader(body))
	if err != nil {
		d.Logger.Error("building notification request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.APIKey)

	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		d.Logger.Error("delivering notification", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.Logger.Error("notification rejected by CRM", "status", resp.StatusCode)
		return false
	}

	d.Logger.Info("handoff notification delivered",
		"full_name", p.FullName,
		"email", p.Email,
	)
	return true
}

// simulate logs the notification in place of a real delivery.
func (d *CRMDispatcher) simulate(p Payload) bool {
	d.Logger.Info("handoff notification (simulated)",
		"to", "sales@iapetusai.com",
		"subject", "NEW High-Value Handoff - "+p.FullName,
		"email", p.Email,
		"context", p.Context,
	)
	return true
}
