package provider

import "context"

// SendRequest is the JSON body posted to the external delivery provider.
type SendRequest struct {
	To      string `json:"to"`
	Channel string `json:"channel"`
	Content string `json:"content"`
}

// SendResponse maps the provider's 202 Accepted response body.
type SendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Provider abstracts delivery to an external email/push service. Mocking
// this interface in tests gives full control over provider behaviour
// without making real HTTP calls. Unlike the domain-coupled version this
// replaces, it takes a pre-built SendRequest so the same provider type backs
// both the email and push channels in internal/dispatch.
type Provider interface {
	Send(ctx context.Context, req SendRequest) (*SendResponse, error)
}
