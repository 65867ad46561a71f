package notify

import "context"

// Routing keys of event lifecycle messages.
const (
	EventCreated        = "event.created"
	EventUpdated        = "event.updated"
	EventTicketsUpdated = "event.tickets_updated"
	EventTicketSold     = "event.ticket_sold"
	EventDeleted        = "event.deleted"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Nop drops every message. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error {
	return nil
}
