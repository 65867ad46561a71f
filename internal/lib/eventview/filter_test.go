package eventview

import (
	"eventManager/internal/models"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var now = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

func ev(id, name, location, description, date, tm string) models.Event {
	return models.Event{
		ID:               id,
		Name:             name,
		Location:         location,
		Description:      description,
		Date:             date,
		Time:             tm,
		TicketQuantity:   10,
		AvailableTickets: 10,
	}
}

func ids(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Filter{
		"all":       FilterAll,
		"":          FilterAll,
		"Upcoming":  FilterUpcoming,
		" past ":    FilterPast,
		"UPCOMING ": FilterUpcoming,
	} {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("tomorrow")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	t.Parallel()

	events := []models.Event{
		ev("jazz", "Jazz Night", "Blue Room", "Live quartet", "2030-07-01", "21:00"),
		ev("gala", "Winter Gala", "City Hall", "", "2030-01-10", "19:00"),
		ev("broken", "Broken Date", "Nowhere", "", "soon", "later"),
		ev("lunch", "Lunch Talk", "city hall annex", "", "2030-06-15", "12:00"),
		ev("morning", "Morning Run", "Park", "Bring water, jazz playlist", "2030-06-15", "08:00"),
	}
	original := append([]models.Event(nil), events...)

	testCases := []struct {
		name   string
		query  string
		filter Filter
		want   []string
	}{
		{name: "All sorted, unparseable last", filter: FilterAll, want: []string{"gala", "morning", "lunch", "jazz", "broken"}},
		{name: "Upcoming includes now", filter: FilterUpcoming, want: []string{"lunch", "jazz"}},
		{name: "Past", filter: FilterPast, want: []string{"gala", "morning"}},
		{name: "Search name", query: "GALA", filter: FilterAll, want: []string{"gala"}},
		{name: "Search location", query: "city hall", filter: FilterAll, want: []string{"gala", "lunch"}},
		{name: "Search description", query: "jazz", filter: FilterAll, want: []string{"morning", "jazz"}},
		{name: "Search then filter", query: "jazz", filter: FilterUpcoming, want: []string{"jazz"}},
		{name: "Blank query matches all", query: "   ", filter: FilterPast, want: []string{"gala", "morning"}},
		{name: "No match", query: "opera", filter: FilterAll, want: []string{}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Apply(events, tc.query, tc.filter, now)
			assert.Equal(t, tc.want, ids(got))
		})
	}

	assert.Equal(t, original, events, "input must not be modified")
}

func TestUpcomingAndPastPartition(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")

		events := make([]models.Event, 0, n)
		for i := 0; i < n; i++ {
			day := rapid.IntRange(1, 28).Draw(t, "day")
			month := rapid.IntRange(5, 7).Draw(t, "month")
			hour := rapid.IntRange(0, 23).Draw(t, "hour")
			minute := rapid.IntRange(0, 59).Draw(t, "minute")

			events = append(events, ev(
				fmt.Sprintf("e%d", i), "Event", "Hall", "",
				fmt.Sprintf("2030-%02d-%02d", month, day),
				fmt.Sprintf("%02d:%02d", hour, minute),
			))
		}

		upcoming := Apply(events, "", FilterUpcoming, now)
		past := Apply(events, "", FilterPast, now)
		all := Apply(events, "", FilterAll, now)

		if len(upcoming)+len(past) != len(all) {
			t.Fatalf("upcoming %d + past %d != all %d", len(upcoming), len(past), len(all))
		}

		seen := make(map[string]bool, n)
		for _, e := range upcoming {
			seen[e.ID] = true
		}
		for _, e := range past {
			if seen[e.ID] {
				t.Fatalf("event %s is both upcoming and past", e.ID)
			}
		}
	})
}
