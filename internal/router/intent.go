// ABOUTME: Intent enumeration and request type for inbound webhook events
// ABOUTME: Maps external display names to a closed variant set with sentinel defaults

package router

// Intent is the closed set of routing variants.
// External intent names map onto exactly one variant; anything unmapped,
// including the empty string, is Unrecognized.
type Intent int

const (
	Unrecognized Intent = iota
	LeadCapture
	HandoffRequest
	Welcome
)

// External display names supplied by the dialog platform.
const (
	IntentNameLeadCapture = "Lead Capture & Qualification"
	IntentNameHandoff     = "handoff.request"
	IntentNameWelcome     = "Default Welcome Intent"
)

// Sentinel values for absent request fields. Formatting must never see an
// unset field.
const (
	SentinelUnknownIntent = "UNKNOWN"
	SentinelNotAvailable  = "N/A"
)

// String returns the variant name for logging and metrics labels.
func (i Intent) String() string {
	switch i {
	case LeadCapture:
		return "lead_capture"
	case HandoffRequest:
		return "handoff_request"
	case Welcome:
		return "welcome"
	default:
		return "unrecognized"
	}
}

// ClassifyIntent maps an external intent name to its variant.
// Matching is exact string equality; there is no fuzzy intent matching.
func ClassifyIntent(name string) Intent {
	switch name {
	case IntentNameLeadCapture:
		return LeadCapture
	case IntentNameHandoff:
		return HandoffRequest
	case IntentNameWelcome:
		return Welcome
	default:
		return Unrecognized
	}
}

// Request is one parsed webhook invocation. Immutable per call.
type Request struct {
	IntentName string
	UserText   string
	SessionID  string
	Parameters map[string]string
}

// NewRequest builds a Request, substituting sentinels for absent fields.
func NewRequest(intentName, userText, sessionID string, params map[string]string) Request {
	if intentName == "" {
		intentName = SentinelUnknownIntent
	}
	if userText == "" {
		userText = SentinelNotAvailable
	}
	if sessionID == "" {
		sessionID = SentinelNotAvailable
	}
	if params == nil {
		params = map[string]string{}
	}
	return Request{
		IntentName: intentName,
		UserText:   userText,
		SessionID:  sessionID,
		Parameters: params,
	}
}

// Param returns the named session parameter, or def when absent or empty.
func (r Request) Param(key, def string) string {
	if v, ok := r.Parameters[key]; ok && v != "" {
		return v
	}
	return def
}
