package createEvent

import (
	"context"
	"errors"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"eventManager/internal/service/events"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description,omitempty"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	Location       string `json:"location" validate:"required"`
	TicketQuantity int    `json:"ticketQuantity" validate:"required,min=1"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, in models.NewEvent) (*models.Event, error)
}

func New(log *slog.Logger, creator EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := request.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Debug("request body decoded", slog.Any("request", req))

		if err = request.Validate(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Info("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)

			if response.HasRequired(validateErr) {
				render.JSON(w, r, response.Error(response.MissingFields))
				return
			}

			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		event, err := creator.CreateEvent(r.Context(), models.NewEvent{
			Name:           req.Name,
			Description:    req.Description,
			Date:           req.Date,
			Time:           req.Time,
			Location:       req.Location,
			TicketQuantity: req.TicketQuantity,
		})
		if err != nil {
			if msg, ok := events.ValidationMessage(err); ok {
				log.Info("event rejected", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(msg))
				return
			}

			log.Error("failed to add event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add event"))
			return
		}

		log.Info("event added", slog.String("id", event.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, event)
	}
}
