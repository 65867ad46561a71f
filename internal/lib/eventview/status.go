package eventview

import (
	"eventManager/internal/models"

	"github.com/fatih/color"
)

type TicketStatus string

const (
	SoldOut       TicketStatus = "Sold Out"
	LowStock      TicketStatus = "Low Stock"
	HalfAvailable TicketStatus = "Half Available"
	Available     TicketStatus = "Available"
)

// Status classifies remaining tickets by the share still available.
// A non-positive quantity or availability is always SoldOut.
func Status(available, quantity int) TicketStatus {
	if quantity <= 0 || available <= 0 {
		return SoldOut
	}

	percentage := float64(available) / float64(quantity) * 100

	switch {
	case percentage <= 25:
		return LowStock
	case percentage <= 50:
		return HalfAvailable
	default:
		return Available
	}
}

func StatusOf(e models.Event) TicketStatus {
	return Status(e.AvailableTickets, e.TicketQuantity)
}

// Rank orders statuses from SoldOut (0) to Available (3).
func (s TicketStatus) Rank() int {
	switch s {
	case LowStock:
		return 1
	case HalfAvailable:
		return 2
	case Available:
		return 3
	default:
		return 0
	}
}

func (s TicketStatus) Color() *color.Color {
	switch s {
	case Available:
		return color.New(color.FgGreen)
	case HalfAvailable:
		return color.New(color.FgYellow)
	case LowStock:
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// CanSell reports whether the sell action should be offered.
func CanSell(e models.Event) bool {
	return e.AvailableTickets > 0
}
