package sqlite

import (
	"context"
	"eventManager/internal/config"
	"eventManager/internal/models"
	"eventManager/internal/storage"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id                TEXT    PRIMARY KEY,
    name              TEXT    NOT NULL,
    description       TEXT    NOT NULL DEFAULT '',
    event_date        TEXT    NOT NULL,
    event_time        TEXT    NOT NULL,
    location          TEXT    NOT NULL,
    ticket_quantity   INTEGER NOT NULL CHECK (ticket_quantity >= 1),
    available_tickets INTEGER NOT NULL,
    created_at        TEXT    NOT NULL,
    updated_at        TEXT    NOT NULL,
    CHECK (available_tickets >= 0 AND available_tickets <= ticket_quantity)
);
CREATE INDEX IF NOT EXISTS events_date_time_idx ON events (event_date, event_time);
`

const eventColumns = `id, name, description, event_date, event_time, location,
	ticket_quantity, available_tickets, created_at, updated_at`

// Storage is a single-node event store on a pool of SQLite connections.
type Storage struct {
	pool *sqlitex.Pool
	log  *slog.Logger
}

// Open creates the pool and the schema. Use ":memory:" with a pool size of
// one for a throwaway database.
func Open(cfg *config.SQLite, log *slog.Logger) (*Storage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", cfg.Path, err)
	}

	log.Info("sqlite pool opened", slog.String("path", cfg.Path), slog.Int("pool_size", poolSize))

	return &Storage{pool: pool, log: log}, nil
}

func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return nil
}

func (s *Storage) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("sqlite: close: %w", err)
	}

	return nil
}

func (s *Storage) CreateEvent(ctx context.Context, event models.Event) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{
			event.ID,
			event.Name,
			event.Description,
			event.Date,
			event.Time,
			event.Location,
			event.TicketQuantity,
			event.AvailableTickets,
			formatTime(event.CreatedAt),
			formatTime(event.UpdatedAt),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	return getEvent(conn, id)
}

func (s *Storage) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, event_time ASC`

	events := []models.Event{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			event, err := readEvent(stmt)
			if err != nil {
				return err
			}
			events = append(events, event)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return events, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id string, fn func(*models.Event) error) (_ *models.Event, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer endFn(&err)

	event, err := getEvent(conn, id)
	if err != nil {
		return nil, err
	}

	if err = fn(event); err != nil {
		return nil, err
	}
	event.ID = id

	query := `
		UPDATE events
		SET name = ?, description = ?, event_date = ?, event_time = ?, location = ?,
			ticket_quantity = ?, available_tickets = ?, updated_at = ?
		WHERE id = ?`

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{
			event.Name,
			event.Description,
			event.Date,
			event.Time,
			event.Location,
			event.TicketQuantity,
			event.AvailableTickets,
			formatTime(event.UpdatedAt),
			event.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

func (s *Storage) SellTicket(ctx context.Context, id string, at time.Time) (*models.Event, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	query := `
		UPDATE events
		SET available_tickets = available_tickets - 1, updated_at = ?
		WHERE id = ? AND available_tickets > 0
		RETURNING ` + eventColumns

	var sold *models.Event
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{formatTime(at), id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			event, err := readEvent(stmt)
			if err != nil {
				return err
			}
			sold = &event
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sell ticket: %w", err)
	}

	if sold != nil {
		return sold, nil
	}

	if _, err = getEvent(conn, id); err != nil {
		return nil, err
	}

	return nil, storage.ErrSoldOut
}

func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `DELETE FROM events WHERE id = ?`, &sqlitex.ExecOptions{
		Args: []any{id},
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if conn.Changes() == 0 {
		s.log.Debug("delete of absent event", slog.String("id", id))
	}

	return nil
}

func getEvent(conn *sqlite.Conn, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	var found *models.Event
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			event, err := readEvent(stmt)
			if err != nil {
				return err
			}
			found = &event
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if found == nil {
		return nil, storage.ErrEventNotFound
	}

	return found, nil
}

func readEvent(stmt *sqlite.Stmt) (models.Event, error) {
	createdAt, err := parseTime(stmt.ColumnText(8))
	if err != nil {
		return models.Event{}, err
	}

	updatedAt, err := parseTime(stmt.ColumnText(9))
	if err != nil {
		return models.Event{}, err
	}

	return models.Event{
		ID:               stmt.ColumnText(0),
		Name:             stmt.ColumnText(1),
		Description:      stmt.ColumnText(2),
		Date:             stmt.ColumnText(3),
		Time:             stmt.ColumnText(4),
		Location:         stmt.ColumnText(5),
		TicketQuantity:   stmt.ColumnInt(6),
		AvailableTickets: stmt.ColumnInt(7),
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}

	return t.UTC(), nil
}
