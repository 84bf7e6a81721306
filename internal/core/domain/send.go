package domain

import "fmt"

// SendKind tags the variant of an outbound send. The dispatcher exposes a
// single entry point over all kinds instead of one code path per kind.
type SendKind string

const (
	SendText  SendKind = "text"
	SendMedia SendKind = "media"
	SendReply SendKind = "reply"
	SendGroup SendKind = "group"
)

// SendRequest carries one outbound send. Which fields are required depends on
// Kind; Validate enforces the per-kind shape.
type SendRequest struct {
	SessionID string
	Kind      SendKind

	To       string // text, media
	Text     string // text, reply, group
	MediaURL string // media
	Caption  string // media, optional
	QuotedID string // reply: the message being replied to
	GroupID  string // group
}

func (r SendRequest) Validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	switch r.Kind {
	case SendText:
		if r.To == "" || r.Text == "" {
			return fmt.Errorf("%w: text send requires to and text", ErrInvalidInput)
		}
	case SendMedia:
		if r.To == "" || r.MediaURL == "" {
			return fmt.Errorf("%w: media send requires to and mediaUrl", ErrInvalidInput)
		}
	case SendReply:
		if r.QuotedID == "" || r.Text == "" {
			return fmt.Errorf("%w: reply requires messageId and text", ErrInvalidInput)
		}
	case SendGroup:
		if r.GroupID == "" || r.Text == "" {
			return fmt.Errorf("%w: group send requires groupId and text", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown send kind %q", ErrInvalidInput, r.Kind)
	}
	return nil
}

// WebhookPayload returns the event payload reported to webhook subscribers
// after a successful send.
func (r SendRequest) WebhookPayload(messageID string) map[string]any {
	p := map[string]any{"messageId": messageID}
	switch r.Kind {
	case SendText:
		p["to"] = r.To
		p["text"] = r.Text
	case SendMedia:
		p["to"] = r.To
		p["mediaUrl"] = r.MediaURL
		if r.Caption != "" {
			p["caption"] = r.Caption
		}
	case SendReply:
		p["replyToMessageId"] = r.QuotedID
		p["text"] = r.Text
	case SendGroup:
		p["groupId"] = r.GroupID
		p["text"] = r.Text
	}
	return p
}
