package eventview

import (
	"eventManager/internal/models"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Filter string

const (
	FilterAll      Filter = "all"
	FilterUpcoming Filter = "upcoming"
	FilterPast     Filter = "past"
)

const startLayout = "2006-01-02 15:04"

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterUpcoming, FilterPast:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, upcoming or past)", s)
	}
}

// StartsAt joins date and time in loc. ok is false when either part does
// not parse.
func StartsAt(e models.Event, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(startLayout, e.Date+" "+e.Time, loc)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Apply searches, filters and sorts events for display. events is not
// modified.
func Apply(events []models.Event, query string, filter Filter, now time.Time) []models.Event {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if query != "" && !matches(e, query) {
			continue
		}

		if filter != FilterAll {
			start, ok := StartsAt(e, now.Location())
			if !ok {
				continue
			}
			if filter == FilterUpcoming && start.Before(now) {
				continue
			}
			if filter == FilterPast && !start.Before(now) {
				continue
			}
		}

		out = append(out, e)
	}

	SortByStart(out, now.Location())

	return out
}

// SortByStart orders events by start ascending. Events whose start does
// not parse go last in their current order.
func SortByStart(events []models.Event, loc *time.Location) {
	slices.SortStableFunc(events, func(a, b models.Event) int {
		ta, oka := StartsAt(a, loc)
		tb, okb := StartsAt(b, loc)

		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		default:
			return ta.Compare(tb)
		}
	})
}

func matches(e models.Event, query string) bool {
	return strings.Contains(strings.ToLower(e.Name), query) ||
		strings.Contains(strings.ToLower(e.Location), query) ||
		strings.Contains(strings.ToLower(e.Description), query)
}
