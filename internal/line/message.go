package line

import "encoding/json"

// Message is the closed set of outbound message payloads this bot can
// send. Each variant knows how to marshal itself into the Messaging API
// wire format; the unexported marker method keeps the set closed so the
// gateway never has to deal with an unknown shape.
type Message interface {
	message()
}

// TextMessage is a plain text message.
type TextMessage struct {
	Text string
}

func (TextMessage) message() {}

// MarshalJSON renders the API "text" message object.
func (m TextMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{
		Type: "text",
		Text: m.Text,
	})
}

// ConfirmMessage is a confirm template with two message actions. Each
// action echoes its own label back as the user's reply text, which is
// what the webhook handler classifies on.
type ConfirmMessage struct {
	AltText  string
	Text     string
	YesLabel string
	NoLabel  string
}

func (ConfirmMessage) message() {}

type templateAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

type confirmTemplate struct {
	Type    string           `json:"type"`
	Text    string           `json:"text"`
	Actions []templateAction `json:"actions"`
}

// MarshalJSON renders the API "template" message object with a confirm
// template body.
func (m ConfirmMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string          `json:"type"`
		AltText  string          `json:"altText"`
		Template confirmTemplate `json:"template"`
	}{
		Type:    "template",
		AltText: m.AltText,
		Template: confirmTemplate{
			Type: "confirm",
			Text: m.Text,
			Actions: []templateAction{
				{Type: "message", Label: m.YesLabel, Text: m.YesLabel},
				{Type: "message", Label: m.NoLabel, Text: m.NoLabel},
			},
		},
	})
}

// StickerMessage references a sticker by its package and sticker IDs.
type StickerMessage struct {
	PackageID string
	StickerID string
}

func (StickerMessage) message() {}

// MarshalJSON renders the API "sticker" message object.
func (m StickerMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"type"`
		PackageID string `json:"packageId"`
		StickerID string `json:"stickerId"`
	}{
		Type:      "sticker",
		PackageID: m.PackageID,
		StickerID: m.StickerID,
	})
}
