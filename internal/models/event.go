package models

import "time"

type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	TicketQuantity   int       `json:"ticketQuantity"`
	AvailableTickets int       `json:"availableTickets"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewEvent is the payload of the create form.
type NewEvent struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Location       string `json:"location"`
	TicketQuantity int    `json:"ticketQuantity"`
}

// EventPatch carries a partial update. Nil fields keep the stored value.
type EventPatch struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	Date             *string `json:"date,omitempty"`
	Time             *string `json:"time,omitempty"`
	Location         *string `json:"location,omitempty"`
	TicketQuantity   *int    `json:"ticketQuantity,omitempty"`
	AvailableTickets *int    `json:"availableTickets,omitempty"`
}

// PatchFromNewEvent builds a patch that overwrites every form field,
// which is what the edit form submits.
func PatchFromNewEvent(e NewEvent) EventPatch {
	return EventPatch{
		Name:           &e.Name,
		Description:    &e.Description,
		Date:           &e.Date,
		Time:           &e.Time,
		Location:       &e.Location,
		TicketQuantity: &e.TicketQuantity,
	}
}
