package line

// Event and message type discriminators used by the webhook payload.
const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

// WebhookRequest is the JSON body of a webhook delivery: zero or more
// events batched into one request.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event. Message is nil for non-message
// events (follow, unfollow, and so on).
type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Timestamp  int64         `json:"timestamp"`
	Source     *EventSource  `json:"source,omitempty"`
	Message    *EventMessage `json:"message,omitempty"`
}

// EventSource identifies who sent the event.
type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// EventMessage is the message attached to a message event. Text is only
// populated for text messages.
type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// IsTextMessage reports whether the event carries a plain text message.
// Everything else is ignored by the webhook handler.
func (e Event) IsTextMessage() bool {
	return e.Type == EventTypeMessage && e.Message != nil && e.Message.Type == MessageTypeText
}
