package updateEvent

import (
	"context"
	"errors"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"eventManager/internal/service/events"
	"eventManager/internal/storage"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
)

// Request accepts either a partial patch or a full event record as
// returned by the API. Server-owned fields are accepted and ignored,
// except id, which must match the path.
type Request struct {
	models.EventPatch
	ID        *string    `json:"id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error)
}

func New(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

		log := log.With(slog.String("op", op))

		id, err := request.EventID(r)
		if err != nil {
			log.Error("invalid event id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		log = log.With(slog.String("event_id", id))

		var req Request

		err = request.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if req.ID != nil && !strings.EqualFold(*req.ID, id) {
			log.Info("body id does not match path", slog.String("body_id", *req.ID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id in body does not match path"))
			return
		}

		event, err := updater.UpdateEvent(r.Context(), id, req.EventPatch)
		if err != nil {
			if msg, ok := events.ValidationMessage(err); ok {
				log.Info("update rejected", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(msg))
				return
			}

			if errors.Is(err, storage.ErrEventNotFound) {
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			log.Error("failed to update event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event"))
			return
		}

		log.Info("event updated")

		render.JSON(w, r, event)
	}
}
