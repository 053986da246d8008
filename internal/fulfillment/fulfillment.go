// ABOUTME: Fulfillment envelope types for the dialog platform response contract
// ABOUTME: Wraps a single reply string into the fixed messages structure

package fulfillment

// Text is the inner text message carrying the reply.
// AllowPlaybackInterruption is always serialized, even when false: the
// platform expects the field to be present.
type Text struct {
	Text                      []string `json:"text"`
	AllowPlaybackInterruption bool     `json:"allow_playback_interruption"`
}

// Message is one entry in the fulfillment messages list.
type Message struct {
	Text Text `json:"text"`
}

// Response is the fulfillment_response object.
type Response struct {
	Messages []Message `json:"messages"`
}

// Envelope is the complete webhook response body.
type Envelope struct {
	FulfillmentResponse Response `json:"fulfillment_response"`
}

// Format wraps a plain-text reply into the platform envelope.
// Playback interruption is always disabled.
func Format(text string) Envelope {
	return Envelope{
		FulfillmentResponse: Response{
			Messages: []Message{
				{
					Text: Text{
						Text:                      []string{text},
						AllowPlaybackInterruption: false,
					},
				},
			},
		},
	}
}
