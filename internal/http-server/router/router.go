package router

import (
	"eventManager/internal/config"
	"eventManager/internal/http-server/handlers/event/createEvent"
	"eventManager/internal/http-server/handlers/event/deleteEvent"
	"eventManager/internal/http-server/handlers/event/getAllEvents"
	"eventManager/internal/http-server/handlers/event/getEvent"
	"eventManager/internal/http-server/handlers/event/sellTicket"
	"eventManager/internal/http-server/handlers/event/updateEvent"
	"eventManager/internal/http-server/handlers/event/updateTickets"
	"eventManager/internal/http-server/middleware/mwlogger"
	"eventManager/internal/http-server/middleware/ratelimit"
	"eventManager/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// EventService is everything the event routes need.
type EventService interface {
	getAllEvents.EventsGetter
	getEvent.EventGetter
	createEvent.EventCreator
	updateEvent.EventUpdater
	updateTickets.TicketsUpdater
	sellTicket.TicketSeller
	deleteEvent.EventDeleter
}

type Options struct {
	CORSOrigins []string
	RateLimit   config.RateLimit
	// StaticDir is served under /static when set.
	StaticDir string
}

func New(log *slog.Logger, events EventService, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	router.Use(ratelimit.New(log, opts.RateLimit.RPS, opts.RateLimit.Burst))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OK())
	})

	eventRoutes := func(r chi.Router) {
		r.Get("/", getAllEvents.New(log, events))
		r.Post("/", createEvent.New(log, events))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getEvent.New(log, events))
			r.Put("/", updateEvent.New(log, events))
			r.Delete("/", deleteEvent.New(log, events))
			r.Patch("/tickets", updateTickets.New(log, events))
			r.Post("/tickets/sell", sellTicket.New(log, events))
		})
	}

	router.Route("/events", eventRoutes)
	// The browser client uses /api as its base path.
	router.Route("/api/events", eventRoutes)

	if opts.StaticDir != "" {
		fs := http.FileServer(http.Dir(opts.StaticDir))
		router.Handle("/static/*", http.StripPrefix("/static/", fs))

		router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/index.html", http.StatusFound)
		})
	}

	return router
}
