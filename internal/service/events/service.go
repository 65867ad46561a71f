package events

import (
	"context"
	"eventManager/internal/lib/clock"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"eventManager/internal/notify"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Storage
type Storage interface {
	CreateEvent(ctx context.Context, event models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetAllEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id string, fn func(*models.Event) error) (*models.Event, error)
	SellTicket(ctx context.Context, id string, at time.Time) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Service owns the event lifecycle: it validates input, keeps
// 0 <= availableTickets <= ticketQuantity on every write path, stamps
// timestamps and announces changes.
type Service struct {
	log       *slog.Logger
	storage   Storage
	publisher notify.Publisher
	clock     clock.Clock
	tracer    trace.Tracer
}

func New(log *slog.Logger, storage Storage, publisher notify.Publisher, clk clock.Clock) *Service {
	if publisher == nil {
		publisher = notify.Nop{}
	}

	return &Service{
		log:       log,
		storage:   storage,
		publisher: publisher,
		clock:     clk,
		tracer:    otel.Tracer("eventManager/service/events"),
	}
}

func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "service.events.ListEvents"

	ctx, span := s.tracer.Start(ctx, "events.list")
	defer span.End()

	events, err := s.storage.GetAllEvents(ctx)
	if err != nil {
		return nil, s.fail(span, op, err)
	}

	span.SetAttributes(attribute.Int("events.count", len(events)))

	return events, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "service.events.GetEvent"

	ctx, span := s.tracer.Start(ctx, "events.get", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	event, err := s.storage.GetEvent(ctx, id)
	if err != nil {
		return nil, s.fail(span, op, err)
	}

	return event, nil
}

func (s *Service) CreateEvent(ctx context.Context, in models.NewEvent) (*models.Event, error) {
	const op = "service.events.CreateEvent"

	ctx, span := s.tracer.Start(ctx, "events.create")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)

	if in.Name == "" || in.Date == "" || in.Time == "" || in.Location == "" || in.TicketQuantity == 0 {
		return nil, s.fail(span, op, invalid(MissingFields))
	}
	if in.TicketQuantity < 0 {
		return nil, s.fail(span, op, invalid("ticketQuantity must be at least 1"))
	}
	if err := validateSchedule(in.Date, in.Time); err != nil {
		return nil, s.fail(span, op, err)
	}

	now := s.clock.Now().UTC()
	event := models.Event{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Description:      in.Description,
		Date:             in.Date,
		Time:             in.Time,
		Location:         in.Location,
		TicketQuantity:   in.TicketQuantity,
		AvailableTickets: in.TicketQuantity,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	span.SetAttributes(attribute.String("event.id", event.ID))

	if err := s.storage.CreateEvent(ctx, event); err != nil {
		return nil, s.fail(span, op, err)
	}

	s.notify(ctx, notify.EventCreated, event)

	return &event, nil
}

// UpdateEvent merges patch into the stored event. When the patch lowers
// ticketQuantity below the stored availableTickets without setting
// availableTickets itself, availableTickets is clamped to the new quantity.
func (s *Service) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	const op = "service.events.UpdateEvent"

	ctx, span := s.tracer.Start(ctx, "events.update", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	now := s.clock.Now().UTC()

	event, err := s.storage.UpdateEvent(ctx, id, func(e *models.Event) error {
		if err := applyPatch(e, patch); err != nil {
			return err
		}
		e.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.fail(span, op, err)
	}

	s.notify(ctx, notify.EventUpdated, event)

	return event, nil
}

// UpdateTicketAvailability overwrites availableTickets with an absolute
// value. Concurrent callers race (last writer wins); use SellTicket to
// take one ticket.
func (s *Service) UpdateTicketAvailability(ctx context.Context, id string, available int) (*models.Event, error) {
	const op = "service.events.UpdateTicketAvailability"

	ctx, span := s.tracer.Start(ctx, "events.update_tickets", trace.WithAttributes(
		attribute.String("event.id", id),
		attribute.Int("tickets.available", available),
	))
	defer span.End()

	now := s.clock.Now().UTC()

	event, err := s.storage.UpdateEvent(ctx, id, func(e *models.Event) error {
		if err := checkAvailable(available, e.TicketQuantity); err != nil {
			return err
		}
		e.AvailableTickets = available
		e.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.fail(span, op, err)
	}

	s.notify(ctx, notify.EventTicketsUpdated, event)

	return event, nil
}

// SellTicket takes one ticket atomically. It fails with storage.ErrSoldOut
// when none is left.
func (s *Service) SellTicket(ctx context.Context, id string) (*models.Event, error) {
	const op = "service.events.SellTicket"

	ctx, span := s.tracer.Start(ctx, "events.sell_ticket", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	event, err := s.storage.SellTicket(ctx, id, s.clock.Now().UTC())
	if err != nil {
		return nil, s.fail(span, op, err)
	}

	span.SetAttributes(attribute.Int("tickets.available", event.AvailableTickets))

	s.notify(ctx, notify.EventTicketSold, event)

	return event, nil
}

// DeleteEvent removes the event. Deleting an absent event is not an error.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	const op = "service.events.DeleteEvent"

	ctx, span := s.tracer.Start(ctx, "events.delete", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	if err := s.storage.DeleteEvent(ctx, id); err != nil {
		return s.fail(span, op, err)
	}

	s.notify(ctx, notify.EventDeleted, map[string]string{"id": id})

	return nil
}

func (s *Service) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) notify(ctx context.Context, routingKey string, payload any) {
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		s.log.Warn("failed to publish event notification",
			slog.String("routing_key", routingKey),
			sl.Err(err),
		)
	}
}

func applyPatch(e *models.Event, p models.EventPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return invalid("name must not be empty")
		}
		e.Name = name
	}

	if p.Description != nil {
		e.Description = *p.Description
	}

	if p.Location != nil {
		location := strings.TrimSpace(*p.Location)
		if location == "" {
			return invalid("location must not be empty")
		}
		e.Location = location
	}

	date, tm := e.Date, e.Time
	if p.Date != nil {
		date = strings.TrimSpace(*p.Date)
	}
	if p.Time != nil {
		tm = strings.TrimSpace(*p.Time)
	}
	if err := validateSchedule(date, tm); err != nil {
		return err
	}
	e.Date, e.Time = date, tm

	if p.TicketQuantity != nil {
		if *p.TicketQuantity < 1 {
			return invalid("ticketQuantity must be at least 1")
		}
		e.TicketQuantity = *p.TicketQuantity
	}

	switch {
	case p.AvailableTickets != nil:
		if err := checkAvailable(*p.AvailableTickets, e.TicketQuantity); err != nil {
			return err
		}
		e.AvailableTickets = *p.AvailableTickets
	case e.AvailableTickets > e.TicketQuantity:
		e.AvailableTickets = e.TicketQuantity
	}

	return nil
}

func checkAvailable(available, quantity int) error {
	if available < 0 || available > quantity {
		return invalid(fmt.Sprintf("availableTickets must be between 0 and %d", quantity))
	}

	return nil
}

func validateSchedule(date, tm string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return invalid("date must use the YYYY-MM-DD format")
	}
	if _, err := time.Parse(TimeLayout, tm); err != nil {
		return invalid("time must use the HH:MM format")
	}

	return nil
}
