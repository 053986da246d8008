// ABOUTME: Intent router dispatching webhook requests to response strategies
// ABOUTME: Stateless per call; collaborator failures degrade to negative paths, never errors

package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iapetus-ai/intent-gateway/internal/match"
	"github.com/iapetus-ai/intent-gateway/internal/notify"
	"github.com/iapetus-ai/intent-gateway/internal/store"
)

// Reply strings. These are part of the conversational contract and must not
// drift between deployments.
const (
	ReplyWelcome = "Welcome to Iapetus AI. How can I assist you today?"

	ReplyLeadCaptured = "Thank you, %s. Your request has been securely logged. A member of our advisory team will be in contact with you shortly."

	ReplyHandoffConfirmed = "Thank you, %s. I have securely notified our advisory team. They will review your request and reach out to you at %s shortly."

	ReplyHandoffFailed = "I'm sorry, I couldn't connect you right now. Please try emailing us directly."

	ReplyNoAnswer = "I'm sorry, I don't have an answer for that. Would you like to speak to a human advisor?"
)

// Parameter defaults per branch.
const (
	defaultLeadName      = "Valued Prospect"
	defaultHandoffName   = "Prospect"
	defaultHandoffEmail  = "Not Collected"
	defaultHandoffReason = "User explicitly asked for an agent."

	leadCaptureContext = "New sales lead captured via conversational agent."
)

// QuestionMatcher finds the best candidate question for a query, applying
// the confidence threshold. Satisfied by *match.Matcher.
type QuestionMatcher interface {
	Lookup(query string, candidates []string) (match.Result, bool)
}

// Options tunes router behavior.
type Options struct {
	// LeadCaptureSurfacesFailure makes the LeadCapture reply branch on the
	// dispatcher result the same way HandoffRequest does. Default false
	// preserves the unconditional acknowledgement.
	LeadCaptureSurfacesFailure bool
}

// Router classifies requests by intent name and assembles the reply.
// It holds no per-request state; every invocation is independent.
type Router struct {
	knowledge  store.KnowledgeStore
	dispatcher notify.Dispatcher
	matcher    QuestionMatcher
	opts       Options
	logger     *slog.Logger
}

// New creates a Router with the given collaborators.
func New(knowledge store.KnowledgeStore, dispatcher notify.Dispatcher, matcher QuestionMatcher, opts Options, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		knowledge:  knowledge,
		dispatcher: dispatcher,
		matcher:    matcher,
		opts:       opts,
		logger:     logger.With("component", "router"),
	}
}

// Route dispatches the request to one strategy and returns the reply text.
// It never returns an error: collaborator failures surface as the negative
// reply for that branch.
func (rt *Router) Route(ctx context.Context, req Request) string {
	intent := ClassifyIntent(req.IntentName)

	rt.logger.Debug("routing request",
		"intent", intent.String(),
		"intent_name", req.IntentName,
		"session", req.SessionID,
	)

	var reply string
	switch intent {
	case LeadCapture:
		reply = rt.handleLeadCapture(ctx, req)
	case HandoffRequest:
		reply = rt.handleHandoff(ctx, req)
	case Welcome:
		reply = ReplyWelcome
	default:
		reply = rt.handleFallback(ctx, req)
	}

	intentRequestsTotal.WithLabelValues(intent.String()).Inc()
	return reply
}

// handleLeadCapture records a sales lead and acknowledges it.
// The dispatcher result is not user-visible unless LeadCaptureSurfacesFailure
// is set.
func (rt *Router) handleLeadCapture(ctx context.Context, req Request) string {
	name := req.Param("full_name", defaultLeadName)

	ok := rt.dispatcher.Notify(ctx, notify.Payload{
		FullName: name,
		Email:    req.Param("email_address", defaultHandoffEmail),
		Context:  leadCaptureContext,
	})
	observeDispatch(ok)
	if !ok {
		rt.logger.Warn("lead capture notification failed", "session", req.SessionID)
		if rt.opts.LeadCaptureSurfacesFailure {
			return ReplyHandoffFailed
		}
	}

	return fmt.Sprintf(ReplyLeadCaptured, name)
}

// handleHandoff notifies the human channel and branches on the result.
func (rt *Router) handleHandoff(ctx context.Context, req Request) string {
	name := req.Param("full_name", defaultHandoffName)
	email := req.Param("email_address", defaultHandoffEmail)

	reason := req.UserText
	if reason == "" || reason == SentinelNotAvailable {
		reason = defaultHandoffReason
	}

	ok := rt.dispatcher.Notify(ctx, notify.Payload{
		FullName: name,
		Email:    email,
		Context:  reason,
	})
	observeDispatch(ok)
	if !ok {
		return ReplyHandoffFailed
	}
	return fmt.Sprintf(ReplyHandoffConfirmed, name, email)
}

// handleFallback looks the user text up in the knowledge base.
// The knowledge set is re-read on every invocation: it is edited externally
// and there is no staleness guarantee to honor.
func (rt *Router) handleFallback(ctx context.Context, req Request) string {
	entries, err := rt.knowledge.ListKnowledgeEntries(ctx)
	if err != nil {
		rt.logger.Error("reading knowledge base", "error", err)
		return ReplyNoAnswer
	}
	if len(entries) == 0 {
		rt.logger.Debug("knowledge base is empty, skipping fallback")
		return ReplyNoAnswer
	}

	candidates := make([]string, len(entries))
	answers := make(map[string]string, len(entries))
	for i, e := range entries {
		candidates[i] = e.Question
		// First answer wins for duplicate questions, matching candidate order
		if _, seen := answers[e.Question]; !seen {
			answers[e.Question] = e.Answer
		}
	}

	result, ok := rt.matcher.Lookup(req.UserText, candidates)
	if !ok {
		rt.logger.Debug("no confident match", "query", req.UserText)
		return ReplyNoAnswer
	}

	fallbackMatchScore.Observe(float64(result.Score))
	rt.logger.Info("knowledge fallback matched",
		"query", req.UserText,
		"matched", result.Question,
		"score", result.Score,
	)
	return answers[result.Question]
}
