package router

import (
	"bytes"
	"encoding/json"
	"eventManager/internal/config"
	"eventManager/internal/lib/clock"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"
	"eventManager/internal/notify"
	"eventManager/internal/service/events"
	"eventManager/internal/storage/memory"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	svc := events.New(log, memory.New(), notify.Nop{}, clock.NewFixed(time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)))

	srv := httptest.NewServer(New(log, svc, opts))
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func TestRouter_EventLifecycle(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"/events", "/api/events"} {
		prefix := prefix
		t.Run(prefix, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, Options{})

			resp, body := do(t, http.MethodPost, srv.URL+prefix,
				`{"name":"Gala","date":"2030-05-01","time":"19:00","location":"City Hall","ticketQuantity":3}`)
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

			var created models.Event
			require.NoError(t, json.Unmarshal(body, &created))
			assert.Equal(t, 3, created.AvailableTickets)

			resp, body = do(t, http.MethodGet, srv.URL+prefix, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var list []models.Event
			require.NoError(t, json.Unmarshal(body, &list))
			require.Len(t, list, 1)

			resp, _ = do(t, http.MethodGet, srv.URL+prefix+"/"+created.ID, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, body = do(t, http.MethodPut, srv.URL+prefix+"/"+created.ID, `{"location":"Opera House"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			resp, body = do(t, http.MethodPatch, srv.URL+prefix+"/"+created.ID+"/tickets", `{"availableTickets":1}`)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			resp, _ = do(t, http.MethodPost, srv.URL+prefix+"/"+created.ID+"/tickets/sell", "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, body = do(t, http.MethodPost, srv.URL+prefix+"/"+created.ID+"/tickets/sell", "")
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
			assert.JSONEq(t, `{"status":"Error","error":"no tickets available"}`, string(body))

			resp, body = do(t, http.MethodDelete, srv.URL+prefix+"/"+created.ID, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"status":"OK","message":"Event deleted"}`, string(body))

			resp, _ = do(t, http.MethodGet, srv.URL+prefix+"/"+created.ID, "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, Options{})

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(body))
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, Options{RateLimit: config.RateLimit{RPS: 0.001, Burst: 1}})

	resp, _ := do(t, http.MethodDelete, srv.URL+"/events/0b8f3c4e-1d2a-4f5b-9c6d-7e8f9a0b1c2d", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/events/0b8f3c4e-1d2a-4f5b-9c6d-7e8f9a0b1c2d", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/events", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
