package eventview

import (
	"eventManager/internal/models"
	"strings"
	"time"
)

// ValidateForm checks an event form before it is submitted and returns
// messages keyed by JSON field name. An empty map means the form is valid.
// Dates before today (in now's location) are rejected.
func ValidateForm(in models.NewEvent, now time.Time) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Event name is required"
	}

	if in.Date == "" {
		errs["date"] = "Event date is required"
	} else if date, err := time.ParseInLocation("2006-01-02", in.Date, now.Location()); err != nil {
		errs["date"] = "Event date must use the YYYY-MM-DD format"
	} else {
		y, m, d := now.Date()
		if date.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location())) {
			errs["date"] = "Event date cannot be in the past"
		}
	}

	if in.Time == "" {
		errs["time"] = "Event time is required"
	} else if _, err := time.Parse("15:04", in.Time); err != nil {
		errs["time"] = "Event time must use the HH:MM format"
	}

	if strings.TrimSpace(in.Location) == "" {
		errs["location"] = "Event location is required"
	}

	if in.TicketQuantity < 1 {
		errs["ticketQuantity"] = "Ticket quantity must be at least 1"
	}

	return errs
}
