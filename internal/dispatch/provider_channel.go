package dispatch

import (
	"context"
	"fmt"

	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/provider"
)

// ProviderChannel adapts a provider.Provider (an HTTP webhook in
// production) into a Channel, tagging the outgoing request with the
// channel name so a single provider endpoint can distinguish email from
// push traffic. The provider credential is resolved once at construction
// (internal/secrets).
type ProviderChannel struct {
	name string
	prov provider.Provider
}

func NewProviderChannel(name string, prov provider.Provider) *ProviderChannel {
	return &ProviderChannel{name: name, prov: prov}
}

func (c *ProviderChannel) Send(ctx context.Context, ev event.ReminderEvent) error {
	req := provider.SendRequest{
		To:      ev.UserID,
		Channel: c.name,
		Content: fmt.Sprintf("Reminder: %s is due", ev.TaskTitle),
	}
	_, err := c.prov.Send(ctx, req)
	return err
}
