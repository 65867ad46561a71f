package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"eventManager/internal/config"
	"eventManager/internal/models"
	"eventManager/internal/storage"
	"fmt"
	"time"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const eventColumns = `id, name, description, event_date, event_time, location,
		ticket_quantity, available_tickets, created_at, updated_at`

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	return Open(connStr)
}

// Open connects using a lib/pq connection string or URL and applies the schema.
func Open(connStr string) (*Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) CreateEvent(ctx context.Context, event models.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.DB.ExecContext(ctx, query,
		event.ID,
		event.Name,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.TicketQuantity,
		event.AvailableTickets,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1`

	event, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (s *Storage) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY event_date ASC, event_time ASC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, *event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// UpdateEvent locks the row, lets fn modify a copy of it and writes every
// mutable column back in the same transaction.
func (s *Storage) UpdateEvent(ctx context.Context, id string, fn func(*models.Event) error) (*models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE`

	event, err := scanEvent(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err = fn(event); err != nil {
		return nil, err
	}
	event.ID = id

	updateQuery := `
		UPDATE events
		SET name = $2, description = $3, event_date = $4, event_time = $5, location = $6,
			ticket_quantity = $7, available_tickets = $8, updated_at = $9
		WHERE id = $1`

	_, err = tx.ExecContext(ctx, updateQuery,
		event.ID,
		event.Name,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.TicketQuantity,
		event.AvailableTickets,
		event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event update: %w", err)
	}

	return event, nil
}

// SellTicket decrements available_tickets in a single conditional UPDATE,
// so concurrent sellers can neither oversell nor lose a decrement.
func (s *Storage) SellTicket(ctx context.Context, id string, at time.Time) (*models.Event, error) {
	query := `
		UPDATE events
		SET available_tickets = available_tickets - 1, updated_at = $2
		WHERE id = $1 AND available_tickets > 0
		RETURNING ` + eventColumns

	event, err := scanEvent(s.DB.QueryRowContext(ctx, query, id, at))
	if err == nil {
		return event, nil
	}

	if isInvalidUUID(err) {
		return nil, storage.ErrEventNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to sell ticket: %w", err)
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`

	if err = s.DB.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}

	if !exists {
		return nil, storage.ErrEventNotFound
	}

	return nil, storage.ErrSoldOut
}

func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`

	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		if isInvalidUUID(err) {
			return nil
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var event models.Event

	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.TicketQuantity,
		&event.AvailableTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.CreatedAt = event.CreatedAt.UTC()
	event.UpdatedAt = event.UpdatedAt.UTC()

	return &event, nil
}

func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
