package sellTicket

import (
	"context"
	"errors"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"eventManager/internal/storage"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketSeller
type TicketSeller interface {
	SellTicket(ctx context.Context, id string) (*models.Event, error)
}

func New(log *slog.Logger, seller TicketSeller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.sellTicket.New"

		log := log.With(slog.String("op", op))

		id, err := request.EventID(r)
		if err != nil {
			log.Error("invalid event id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		log = log.With(slog.String("event_id", id))

		event, err := seller.SellTicket(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrSoldOut):
				log.Info("event is sold out")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("no tickets available"))
			case errors.Is(err, storage.ErrEventNotFound):
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			default:
				log.Error("failed to sell ticket", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to sell ticket"))
			}
			return
		}

		log.Info("ticket sold", slog.Int("available", event.AvailableTickets))

		render.JSON(w, r, event)
	}
}
