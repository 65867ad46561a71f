package eventstate

import (
	"context"
	"errors"
	"eventManager/internal/eventstate/mocks"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errServer = errors.New("server unavailable")

func event(id, name string, available int) models.Event {
	return models.Event{
		ID:               id,
		Name:             name,
		Date:             "2030-05-01",
		Time:             "19:00",
		Location:         "City Hall",
		TicketQuantity:   100,
		AvailableTickets: available,
	}
}

func loaded(t *testing.T, repo *mocks.Repository, events ...models.Event) *Container {
	t.Helper()

	repo.On("ListEvents", mock.Anything).Return(events, nil).Once()

	c := New(repo, slogdiscard.NewDiscardLogger())
	require.NoError(t, c.Init(context.Background()))

	return c
}

func TestContainer_InitOnce(t *testing.T) {
	t.Parallel()

	repo := mocks.NewRepository(t)
	repo.On("ListEvents", mock.Anything).Return([]models.Event{event("a", "Gala", 100)}, nil).Once()

	c := New(repo, slogdiscard.NewDiscardLogger())
	assert.True(t, c.Snapshot().Loading)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Init(context.Background()))
		}()
	}
	wg.Wait()

	state := c.Snapshot()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Events, 1)
}

func TestContainer_FetchFailure(t *testing.T) {
	t.Parallel()

	repo := mocks.NewRepository(t)
	repo.On("ListEvents", mock.Anything).Return(nil, errServer).Once()
	repo.On("ListEvents", mock.Anything).Return([]models.Event{event("a", "Gala", 100)}, nil).Once()

	c := New(repo, slogdiscard.NewDiscardLogger())

	err := c.Init(context.Background())
	assert.ErrorIs(t, err, errServer)

	state := c.Snapshot()
	assert.False(t, state.Loading)
	assert.Equal(t, FetchFailed, state.Error)
	assert.Empty(t, state.Events)

	require.NoError(t, c.Refetch(context.Background()))

	state = c.Snapshot()
	assert.Empty(t, state.Error, "refetch clears the previous error")
	assert.Len(t, state.Events, 1)
}

func TestContainer_Create(t *testing.T) {
	t.Parallel()

	repo := mocks.NewRepository(t)
	c := loaded(t, repo, event("a", "Gala", 100))

	in := models.NewEvent{Name: "Jazz", Date: "2030-06-01", Time: "21:00", Location: "Blue Room", TicketQuantity: 50}
	created := event("b", "Jazz", 50)
	repo.On("CreateEvent", mock.Anything, in).Return(&created, nil).Once()

	got, err := c.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	events := c.Snapshot().Events
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[1].ID)
}

func TestContainer_MutationFailuresKeepList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		setup   func(repo *mocks.Repository)
		run     func(c *Container) error
		message string
	}{
		{
			name: "Create",
			setup: func(repo *mocks.Repository) {
				repo.On("CreateEvent", mock.Anything, mock.Anything).Return(nil, errServer).Once()
			},
			run: func(c *Container) error {
				_, err := c.Create(context.Background(), models.NewEvent{Name: "x"})
				return err
			},
			message: CreateFailed,
		},
		{
			name: "Update",
			setup: func(repo *mocks.Repository) {
				repo.On("UpdateEvent", mock.Anything, "a", mock.Anything).Return(nil, errServer).Once()
			},
			run: func(c *Container) error {
				_, err := c.Update(context.Background(), "a", models.EventPatch{})
				return err
			},
			message: UpdateFailed,
		},
		{
			name: "Delete",
			setup: func(repo *mocks.Repository) {
				repo.On("DeleteEvent", mock.Anything, "a").Return(errServer).Once()
			},
			run: func(c *Container) error {
				return c.Delete(context.Background(), "a")
			},
			message: DeleteFailed,
		},
		{
			name: "Tickets",
			setup: func(repo *mocks.Repository) {
				repo.On("UpdateTicketAvailability", mock.Anything, "a", 10).Return(nil, errServer).Once()
			},
			run: func(c *Container) error {
				_, err := c.UpdateTicketAvailability(context.Background(), "a", 10)
				return err
			},
			message: TicketsFailed,
		},
		{
			name: "Sell",
			setup: func(repo *mocks.Repository) {
				repo.On("SellTicket", mock.Anything, "a").Return(nil, errServer).Once()
			},
			run: func(c *Container) error {
				_, err := c.SellTicket(context.Background(), "a")
				return err
			},
			message: TicketsFailed,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := mocks.NewRepository(t)
			c := loaded(t, repo, event("a", "Gala", 100))
			before := c.Snapshot().Events

			tc.setup(repo)

			err := tc.run(c)
			assert.ErrorIs(t, err, errServer)

			state := c.Snapshot()
			assert.Equal(t, tc.message, state.Error)
			assert.Equal(t, before, state.Events)
		})
	}
}

func TestContainer_ReplaceAndRemove(t *testing.T) {
	t.Parallel()

	repo := mocks.NewRepository(t)
	c := loaded(t, repo, event("a", "Gala", 100), event("b", "Jazz", 50))
	ctx := context.Background()

	name := "Winter Gala"
	renamed := event("a", "Winter Gala", 100)
	repo.On("UpdateEvent", mock.Anything, "a", models.EventPatch{Name: &name}).Return(&renamed, nil).Once()

	_, err := c.Update(ctx, "a", models.EventPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Winter Gala", c.Snapshot().Events[0].Name)

	tickets := event("a", "Winter Gala", 99)
	repo.On("UpdateTicketAvailability", mock.Anything, "a", 99).Return(&tickets, nil).Once()

	_, err = c.UpdateTicketAvailability(ctx, "a", 99)
	require.NoError(t, err)
	assert.Equal(t, 99, c.Snapshot().Events[0].AvailableTickets)

	sold := event("b", "Jazz", 49)
	repo.On("SellTicket", mock.Anything, "b").Return(&sold, nil).Once()

	_, err = c.SellTicket(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 49, c.Snapshot().Events[1].AvailableTickets)

	repo.On("DeleteEvent", mock.Anything, "a").Return(nil).Once()

	require.NoError(t, c.Delete(ctx, "a"))

	events := c.Snapshot().Events
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].ID)
}

func TestContainer_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	repo := mocks.NewRepository(t)
	c := loaded(t, repo, event("a", "Gala", 100))

	snap := c.Snapshot()
	snap.Events[0].Name = "changed"

	assert.Equal(t, "Gala", c.Snapshot().Events[0].Name)
}
