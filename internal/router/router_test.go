// ABOUTME: Tests for intent routing and reply assembly
// ABOUTME: Covers every branch, parameter defaults, and collaborator failure paths

package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iapetus-ai/intent-gateway/internal/match"
	"github.com/iapetus-ai/intent-gateway/internal/notify"
	"github.com/iapetus-ai/intent-gateway/internal/store"
)

// stubDispatcher records the last payload and returns a fixed result.
type stubDispatcher struct {
	result bool
	called bool
	last   notify.Payload
}

func (s *stubDispatcher) Notify(ctx context.Context, p notify.Payload) bool {
	s.called = true
	s.last = p
	return s.result
}

// stubMatcher returns a fixed result regardless of input.
type stubMatcher struct {
	result match.Result
	ok     bool
}

func (s *stubMatcher) Lookup(query string, candidates []string) (match.Result, bool) {
	return s.result, s.ok
}

func newTestRouter(t *testing.T, knowledge store.KnowledgeStore, d notify.Dispatcher, m QuestionMatcher, opts Options) *Router {
	t.Helper()
	if knowledge == nil {
		knowledge = store.NewMockStore()
	}
	if d == nil {
		d = &stubDispatcher{result: true}
	}
	if m == nil {
		m = match.New(0)
	}
	return New(knowledge, d, m, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassifyIntent(t *testing.T) {
	assert.Equal(t, LeadCapture, ClassifyIntent("Lead Capture & Qualification"))
	assert.Equal(t, HandoffRequest, ClassifyIntent("handoff.request"))
	assert.Equal(t, Welcome, ClassifyIntent("Default Welcome Intent"))
	assert.Equal(t, Unrecognized, ClassifyIntent(""))
	assert.Equal(t, Unrecognized, ClassifyIntent("UNKNOWN"))
	assert.Equal(t, Unrecognized, ClassifyIntent("default welcome intent")) // exact match only
}

func TestNewRequest_Sentinels(t *testing.T) {
	req := NewRequest("", "", "", nil)

	assert.Equal(t, "UNKNOWN", req.IntentName)
	assert.Equal(t, "N/A", req.UserText)
	assert.Equal(t, "N/A", req.SessionID)
	assert.NotNil(t, req.Parameters)
}

func TestRoute_Welcome(t *testing.T) {
	d := &stubDispatcher{result: true}
	rt := newTestRouter(t, nil, d, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("Default Welcome Intent", "hi", "s1", nil))

	assert.Equal(t, "Welcome to Iapetus AI. How can I assist you today?", reply)
	assert.False(t, d.called, "welcome must have no side effects")
}

func TestRoute_LeadCapture_DefaultName(t *testing.T) {
	d := &stubDispatcher{result: true}
	rt := newTestRouter(t, nil, d, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("Lead Capture & Qualification", "I want a demo", "s1", nil))

	assert.Contains(t, reply, "Valued Prospect")
	assert.True(t, d.called)
	assert.Equal(t, "Valued Prospect", d.last.FullName)
}

func TestRoute_LeadCapture_NamedProspect(t *testing.T) {
	d := &stubDispatcher{result: true}
	rt := newTestRouter(t, nil, d, nil, Options{})

	params := map[string]string{"full_name": "Ada Lovelace"}
	reply := rt.Route(context.Background(), NewRequest("Lead Capture & Qualification", "demo please", "s1", params))

	assert.Contains(t, reply, "Ada Lovelace")
}

func TestRoute_LeadCapture_DispatchFailureNotSurfaced(t *testing.T) {
	d := &stubDispatcher{result: false}
	rt := newTestRouter(t, nil, d, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("Lead Capture & Qualification", "demo", "s1", nil))

	// Observed behavior: acknowledgement regardless of dispatch outcome
	assert.Contains(t, reply, "Valued Prospect")
	assert.Contains(t, reply, "securely logged")
}

func TestRoute_LeadCapture_SurfaceFailureFlag(t *testing.T) {
	d := &stubDispatcher{result: false}
	rt := newTestRouter(t, nil, d, nil, Options{LeadCaptureSurfacesFailure: true})

	reply := rt.Route(context.Background(), NewRequest("Lead Capture & Qualification", "demo", "s1", nil))

	assert.Equal(t, ReplyHandoffFailed, reply)
}

func TestRoute_Handoff_Success(t *testing.T) {
	d := &stubDispatcher{result: true}
	rt := newTestRouter(t, nil, d, nil, Options{})

	params := map[string]string{
		"full_name":     "Ada Lovelace",
		"email_address": "ada@example.com",
	}
	reply := rt.Route(context.Background(), NewRequest("handoff.request", "I need a human", "s1", params))

	assert.Contains(t, reply, "Ada Lovelace")
	assert.Contains(t, reply, "ada@example.com")
	assert.Equal(t, "I need a human", d.last.Context)
}

func TestRoute_Handoff_Defaults(t *testing.T) {
	d := &stubDispatcher{result: true}
	rt := newTestRouter(t, nil, d, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("handoff.request", "", "s1", nil))

	assert.Contains(t, reply, "Prospect")
	assert.Contains(t, reply, "Not Collected")
	// Empty user text falls back to the fixed reason
	assert.Equal(t, "User explicitly asked for an agent.", d.last.Context)
}

func TestRoute_Handoff_DispatchFailure(t *testing.T) {
	d := &stubDispatcher{result: false}
	rt := newTestRouter(t, nil, d, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("handoff.request", "help", "s1", nil))

	assert.Equal(t, ReplyHandoffFailed, reply)
}

func TestRoute_Fallback_ConfidentMatch(t *testing.T) {
	ms := store.NewMockStore()
	require.NoError(t, ms.PutKnowledgeEntry(context.Background(), &store.KnowledgeEntry{
		Question: "What is the pricing?",
		Answer:   "$99/mo",
	}))

	// The platform-observed example: similarity 90 for this query pair
	m := &stubMatcher{result: match.Result{Question: "What is the pricing?", Score: 90}, ok: true}
	rt := newTestRouter(t, ms, nil, m, Options{})

	reply := rt.Route(context.Background(), NewRequest("some.unknown.intent", "how much does it cost", "s1", nil))

	assert.Equal(t, "$99/mo", reply)
}

func TestRoute_Fallback_ExactQuestionThroughRealMatcher(t *testing.T) {
	ms := store.NewMockStore()
	require.NoError(t, ms.PutKnowledgeEntry(context.Background(), &store.KnowledgeEntry{
		Question: "What is the pricing?",
		Answer:   "$99/mo",
	}))

	rt := newTestRouter(t, ms, nil, match.New(85), Options{})

	reply := rt.Route(context.Background(), NewRequest("", "the pricing is what", "s1", nil))

	assert.Equal(t, "$99/mo", reply)
}

func TestRoute_Fallback_NoMatch(t *testing.T) {
	ms := store.NewMockStore()
	require.NoError(t, ms.PutKnowledgeEntry(context.Background(), &store.KnowledgeEntry{
		Question: "What is the pricing?",
		Answer:   "$99/mo",
	}))

	m := &stubMatcher{ok: false}
	rt := newTestRouter(t, ms, nil, m, Options{})

	reply := rt.Route(context.Background(), NewRequest("gibberish.intent", "unrelated", "s1", nil))

	assert.Equal(t, ReplyNoAnswer, reply)
}

func TestRoute_Fallback_EmptyKnowledgeBase(t *testing.T) {
	rt := newTestRouter(t, store.NewMockStore(), nil, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("anything.else", "how much does it cost", "s1", nil))

	assert.Equal(t, ReplyNoAnswer, reply)
}

func TestRoute_Fallback_StoreFailureDegrades(t *testing.T) {
	ms := store.NewMockStore()
	ms.FailList = errors.New("store unavailable")

	rt := newTestRouter(t, ms, nil, nil, Options{})

	reply := rt.Route(context.Background(), NewRequest("anything.else", "how much", "s1", nil))

	// Transient collaborator failure is a normal negative outcome
	assert.Equal(t, ReplyNoAnswer, reply)
}

func TestRoute_Fallback_ThresholdBoundary(t *testing.T) {
	ms := store.NewMockStore()
	require.NoError(t, ms.PutKnowledgeEntry(context.Background(), &store.KnowledgeEntry{
		Question: "What is the pricing?",
		Answer:   "$99/mo",
	}))

	// Score exactly at the threshold is rejected by the real matcher policy
	at := &stubMatcher{ok: false} // match.Matcher.Lookup already rejected 85
	rt := newTestRouter(t, ms, nil, at, Options{})
	reply := rt.Route(context.Background(), NewRequest("x", "q", "s1", nil))
	assert.Equal(t, ReplyNoAnswer, reply)

	above := &stubMatcher{result: match.Result{Question: "What is the pricing?", Score: 86}, ok: true}
	rt = newTestRouter(t, ms, nil, above, Options{})
	reply = rt.Route(context.Background(), NewRequest("x", "q", "s1", nil))
	assert.Equal(t, "$99/mo", reply)
}
