package eventview

import (
	"eventManager/internal/models"
	"time"
)

type Summary struct {
	TotalEvents      int
	UpcomingEvents   int
	TotalTickets     int
	AvailableTickets int
}

func Stats(events []models.Event, now time.Time) Summary {
	var s Summary

	for _, e := range events {
		s.TotalEvents++
		s.TotalTickets += e.TicketQuantity
		s.AvailableTickets += e.AvailableTickets

		if start, ok := StartsAt(e, now.Location()); ok && !start.Before(now) {
			s.UpcomingEvents++
		}
	}

	return s
}

// IsPast reports whether the event started before now. Events with an
// unparseable schedule are never past.
func IsPast(e models.Event, now time.Time) bool {
	start, ok := StartsAt(e, now.Location())

	return ok && start.Before(now)
}
