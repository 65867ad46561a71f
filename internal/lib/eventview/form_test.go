package eventview

import (
	"eventManager/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateForm(t *testing.T) {
	t.Parallel()

	valid := models.NewEvent{
		Name:           "Gala",
		Date:           "2030-06-15",
		Time:           "19:00",
		Location:       "City Hall",
		TicketQuantity: 100,
	}

	assert.Empty(t, ValidateForm(valid, now), "today is allowed")

	errs := ValidateForm(models.NewEvent{Name: "  ", Location: " "}, now)
	assert.Equal(t, map[string]string{
		"name":           "Event name is required",
		"date":           "Event date is required",
		"time":           "Event time is required",
		"location":       "Event location is required",
		"ticketQuantity": "Ticket quantity must be at least 1",
	}, errs)

	past := valid
	past.Date = "2030-06-14"
	assert.Equal(t, map[string]string{"date": "Event date cannot be in the past"}, ValidateForm(past, now))

	malformed := valid
	malformed.Date = "15/06/2030"
	malformed.Time = "7pm"
	assert.Equal(t, map[string]string{
		"date": "Event date must use the YYYY-MM-DD format",
		"time": "Event time must use the HH:MM format",
	}, ValidateForm(malformed, now))
}
