package memory

import (
	"context"
	"eventManager/internal/models"
	"eventManager/internal/storage"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Storage keeps events in process memory. It is safe for concurrent use.
type Storage struct {
	mu     sync.RWMutex
	events map[string]models.Event
	order  []string
}

func New() *Storage {
	return &Storage{
		events: make(map[string]models.Event),
	}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) CreateEvent(_ context.Context, event models.Event) error {
	const op = "storage.memory.CreateEvent"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return fmt.Errorf("%s: event %s already exists", op, event.ID)
	}

	s.events[event.ID] = event
	s.order = append(s.order, event.ID)

	return nil
}

func (s *Storage) GetEvent(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	return &event, nil
}

func (s *Storage) GetAllEvents(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, s.events[id])
	}

	slices.SortStableFunc(events, func(a, b models.Event) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})

	return events, nil
}

func (s *Storage) UpdateEvent(_ context.Context, id string, fn func(*models.Event) error) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	if err := fn(&event); err != nil {
		return nil, err
	}

	event.ID = id
	s.events[id] = event

	return &event, nil
}

func (s *Storage) SellTicket(_ context.Context, id string, at time.Time) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	if event.AvailableTickets <= 0 {
		return nil, storage.ErrSoldOut
	}

	event.AvailableTickets--
	event.UpdatedAt = at
	s.events[id] = event

	return &event, nil
}

func (s *Storage) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return nil
	}

	delete(s.events, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	return nil
}
