// Package channel defines the interface for notification delivery channels.
package channel

import "context"

// Channel names known to the dispatcher.
const (
	Email    = "email"
	WhatsApp = "whatsapp"
)

// Channel is the interface that all delivery channels must implement.
type Channel interface {
	// Send delivers one message to one recipient. The recipient format
	// depends on the channel: an email address, or a phone number in E.164
	// form. Subject is ignored by channels without a subject concept.
	Send(ctx context.Context, recipient, subject, body string) error

	// Type returns the channel name (e.g. "email", "whatsapp").
	Type() string
}

// Registry manages delivery channels by type.
type Registry struct {
	channels map[string]Channel
}

// NewRegistry creates a new channel registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]Channel),
	}
}

// Register registers a channel.
func (r *Registry) Register(ch Channel) {
	r.channels[ch.Type()] = ch
}

// Get retrieves a channel by type.
func (r *Registry) Get(channelType string) (Channel, bool) {
	ch, ok := r.channels[channelType]
	return ch, ok
}

// List returns all registered channel types.
func (r *Registry) List() []string {
	types := make([]string, 0, len(r.channels))
	for t := range r.channels {
		types = append(types, t)
	}
	return types
}
