// Package eventstate holds the client-side list of events and keeps it in
// step with the server after every mutation.
package eventstate

import (
	"context"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"log/slog"
	"slices"
	"sync"
)

// Messages shown to the user when an operation fails. Only the latest one
// is kept.
const (
	FetchFailed   = "Failed to fetch events"
	CreateFailed  = "Failed to create event"
	UpdateFailed  = "Failed to update event"
	DeleteFailed  = "Failed to delete event"
	TicketsFailed = "Failed to update tickets"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Repository
type Repository interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, in models.NewEvent) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error)
	UpdateTicketAvailability(ctx context.Context, id string, available int) (*models.Event, error)
	SellTicket(ctx context.Context, id string) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// State is a point-in-time copy of the container.
type State struct {
	Events  []models.Event
	Loading bool
	Error   string
}

// Container is the single place the client list is mutated. It is safe
// for concurrent use.
type Container struct {
	repo Repository
	log  *slog.Logger

	initOnce sync.Once
	initErr  error

	mu      sync.Mutex
	events  []models.Event
	loading bool
	err     string
}

// New returns a container in the loading state. Call Init to fetch.
func New(repo Repository, log *slog.Logger) *Container {
	return &Container{
		repo:    repo,
		log:     log,
		events:  []models.Event{},
		loading: true,
	}
}

// Init performs the initial load. Only the first call reaches the server;
// later calls return its result.
func (c *Container) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.Refetch(ctx)
	})

	return c.initErr
}

func (c *Container) Refetch(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	events, err := c.repo.ListEvents(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = false

	if err != nil {
		c.log.Error("failed to fetch events", sl.Err(err))
		c.err = FetchFailed
		return err
	}

	c.events = slices.Clone(events)
	if c.events == nil {
		c.events = []models.Event{}
	}

	return nil
}

func (c *Container) Create(ctx context.Context, in models.NewEvent) (*models.Event, error) {
	event, err := c.repo.CreateEvent(ctx, in)
	if err != nil {
		c.fail(CreateFailed, err)
		return nil, err
	}

	c.mu.Lock()
	c.events = append(c.events, *event)
	c.mu.Unlock()

	return event, nil
}

func (c *Container) Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	event, err := c.repo.UpdateEvent(ctx, id, patch)
	if err != nil {
		c.fail(UpdateFailed, err)
		return nil, err
	}

	c.replace(id, *event)

	return event, nil
}

func (c *Container) UpdateTicketAvailability(ctx context.Context, id string, available int) (*models.Event, error) {
	event, err := c.repo.UpdateTicketAvailability(ctx, id, available)
	if err != nil {
		c.fail(TicketsFailed, err)
		return nil, err
	}

	c.replace(id, *event)

	return event, nil
}

func (c *Container) SellTicket(ctx context.Context, id string) (*models.Event, error) {
	event, err := c.repo.SellTicket(ctx, id)
	if err != nil {
		c.fail(TicketsFailed, err)
		return nil, err
	}

	c.replace(id, *event)

	return event, nil
}

func (c *Container) Delete(ctx context.Context, id string) error {
	if err := c.repo.DeleteEvent(ctx, id); err != nil {
		c.fail(DeleteFailed, err)
		return err
	}

	c.mu.Lock()
	c.events = slices.DeleteFunc(c.events, func(e models.Event) bool { return e.ID == id })
	c.mu.Unlock()

	return nil
}

func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Events:  slices.Clone(c.events),
		Loading: c.loading,
		Error:   c.err,
	}
}

func (c *Container) replace(id string, event models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.events {
		if c.events[i].ID == id {
			c.events[i] = event
		}
	}
}

func (c *Container) fail(msg string, err error) {
	c.log.Error(msg, sl.Err(err))

	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
}
