package eventview

import (
	"eventManager/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		available int
		quantity  int
		want      TicketStatus
	}{
		{name: "Nothing left", available: 0, quantity: 100, want: SoldOut},
		{name: "Zero quantity", available: 0, quantity: 0, want: SoldOut},
		{name: "Negative quantity", available: 5, quantity: -1, want: SoldOut},
		{name: "One percent", available: 1, quantity: 100, want: LowStock},
		{name: "Exactly a quarter", available: 25, quantity: 100, want: LowStock},
		{name: "Just above a quarter", available: 26, quantity: 100, want: HalfAvailable},
		{name: "Exactly half", available: 50, quantity: 100, want: HalfAvailable},
		{name: "Just above half", available: 51, quantity: 100, want: Available},
		{name: "Full", available: 100, quantity: 100, want: Available},
		{name: "One of three", available: 1, quantity: 3, want: HalfAvailable},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, Status(tc.available, tc.quantity))
		})
	}
}

func TestStatusOfAndCanSell(t *testing.T) {
	t.Parallel()

	e := models.Event{TicketQuantity: 10, AvailableTickets: 1}
	assert.Equal(t, LowStock, StatusOf(e))
	assert.True(t, CanSell(e))

	e.AvailableTickets = 0
	assert.Equal(t, SoldOut, StatusOf(e))
	assert.False(t, CanSell(e))
}

func TestStatusRankAndColor(t *testing.T) {
	t.Parallel()

	statuses := []TicketStatus{SoldOut, LowStock, HalfAvailable, Available}
	for i, s := range statuses {
		assert.Equal(t, i, s.Rank())
		assert.NotNil(t, s.Color())
	}
}

func TestStatusIsMonotonic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		quantity := rapid.IntRange(1, 10_000).Draw(t, "quantity")
		a := rapid.IntRange(0, quantity).Draw(t, "a")
		b := rapid.IntRange(0, quantity).Draw(t, "b")

		sa, sb := Status(a, quantity), Status(b, quantity)

		switch sa {
		case SoldOut, LowStock, HalfAvailable, Available:
		default:
			t.Fatalf("unexpected status %q", sa)
		}

		if sa != Status(a, quantity) {
			t.Fatalf("status of %d/%d is not deterministic", a, quantity)
		}

		if a <= b && sa.Rank() > sb.Rank() {
			t.Fatalf("%d/%d is %q but %d/%d is %q", a, quantity, sa, b, quantity, sb)
		}

		if (a == 0) != (sa == SoldOut) {
			t.Fatalf("%d/%d classified as %q", a, quantity, sa)
		}
	})
}
