package updateTickets

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

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	AvailableTickets *int `json:"availableTickets" validate:"required"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketsUpdater
type TicketsUpdater interface {
	UpdateTicketAvailability(ctx context.Context, id string, available int) (*models.Event, error)
}

func New(log *slog.Logger, updater TicketsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateTickets.New"

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

			if field, ok := request.TypeMismatch(err); ok && field == "availableTickets" {
				render.JSON(w, r, response.Error("availableTickets must be a number"))
				return
			}

			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = request.Validate(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Info("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		event, err := updater.UpdateTicketAvailability(r.Context(), id, *req.AvailableTickets)
		if err != nil {
			if msg, ok := events.ValidationMessage(err); ok {
				log.Info("ticket update rejected", sl.Err(err))
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

			log.Error("failed to update tickets", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update tickets"))
			return
		}

		log.Info("ticket availability updated", slog.Int("available", event.AvailableTickets))

		render.JSON(w, r, event)
	}
}
