package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/models"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// APIError is returned for any non-2xx answer from the events API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("events api: status %d", e.StatusCode)
	}

	return fmt.Sprintf("events api: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsSoldOut reports whether err is the conflict returned when selling a
// ticket for an event with none left.
func IsSoldOut(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8080" or
	// "http://localhost:8080/api".
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with Timeout is
	// created.
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client talks to the events REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodGet, eventPath(id), nil, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, in models.NewEvent) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPost, "/events", in, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPut, eventPath(id), patch, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *Client) UpdateTicketAvailability(ctx context.Context, id string, available int) (*models.Event, error) {
	body := struct {
		AvailableTickets int `json:"availableTickets"`
	}{AvailableTickets: available}

	var event models.Event
	if err := c.do(ctx, http.MethodPatch, eventPath(id)+"/tickets", body, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *Client) SellTicket(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPost, eventPath(id)+"/tickets/sell", nil, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, eventPath(id), nil, nil)
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("events api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var body response.Response
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}
