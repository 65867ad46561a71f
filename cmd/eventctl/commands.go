package main

import (
	"context"
	"errors"
	"eventManager/internal/client"
	"eventManager/internal/eventstate"
	"eventManager/internal/lib/clock"
	"eventManager/internal/lib/eventview"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

const defaultServer = "http://localhost:8080"

const usage = `usage: eventctl [--server URL] [--timeout D] [--no-color] [--verbose] <command> [args]

commands:
  list [--search Q] [--filter all|upcoming|past]
  stats
  create --name N --date YYYY-MM-DD --time HH:MM --location L --tickets N [--description D]
  update <id> [--name N] [--date D] [--time T] [--location L] [--description D] [--tickets N] [--available N]
  tickets <id> <available>
  sell <id>
  delete <id>
`

var errUsage = errors.New("invalid usage")

type app struct {
	out    io.Writer
	events *eventstate.Container
	clock  clock.Clock
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, clk clock.Clock) int {
	global := pflag.NewFlagSet("eventctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	server := global.String("server", envOr("EVENTS_API_URL", defaultServer), "events API base URL")
	timeout := global.Duration("timeout", 10*time.Second, "request timeout")
	noColor := global.Bool("no-color", false, "disable coloured output")
	verbose := global.Bool("verbose", false, "log API calls to stderr")

	if err := global.Parse(args); err != nil {
		return 2
	}

	if *noColor {
		color.NoColor = true
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	log := slogdiscard.NewDiscardLogger()
	if *verbose {
		log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	api, err := client.New(client.Config{BaseURL: *server, Timeout: *timeout, Logger: log})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	a := &app{
		out:    stdout,
		events: eventstate.New(api, log),
		clock:  clk,
	}

	commands := map[string]func(context.Context, []string) error{
		"list":    a.list,
		"stats":   a.stats,
		"create":  a.create,
		"update":  a.update,
		"tickets": a.tickets,
		"sell":    a.sell,
		"delete":  a.delete,
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", rest[0], usage)
		return 2
	}

	if err := cmd(ctx, rest[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintln(stderr, "error:", describe(err, a.events.Snapshot().Error))
		return 1
	}

	return 0
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	search := fs.String("search", "", "match name, location or description")
	filterFlag := fs.String("filter", string(eventview.FilterAll), "all, upcoming or past")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	filter, err := eventview.ParseFilter(*filterFlag)
	if err != nil {
		return err
	}

	if err := a.events.Init(ctx); err != nil {
		return err
	}

	now := a.clock.Now()
	shown := eventview.Apply(a.events.Snapshot().Events, *search, filter, now)
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No events found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tWHEN\tLOCATION\tTICKETS\tSTATUS")
	for _, e := range shown {
		when := e.Date + " " + e.Time
		if eventview.IsPast(e, now) {
			when += " (past)"
		}

		status := eventview.StatusOf(e)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			e.ID, e.Name, when, e.Location, e.AvailableTickets, e.TicketQuantity,
			status.Color().Sprint(string(status)),
		)
	}

	return tw.Flush()
}

func (a *app) stats(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	if err := a.events.Init(ctx); err != nil {
		return err
	}

	s := eventview.Stats(a.events.Snapshot().Events, a.clock.Now())

	fmt.Fprintf(a.out, "Total events:      %d\n", s.TotalEvents)
	fmt.Fprintf(a.out, "Upcoming events:   %d\n", s.UpcomingEvents)
	fmt.Fprintf(a.out, "Total tickets:     %d\n", s.TotalTickets)
	fmt.Fprintf(a.out, "Available tickets: %d\n", s.AvailableTickets)

	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := newFlagSet("create")

	var in models.NewEvent
	fs.StringVar(&in.Name, "name", "", "event name")
	fs.StringVar(&in.Description, "description", "", "optional description")
	fs.StringVar(&in.Date, "date", "", "date, YYYY-MM-DD")
	fs.StringVar(&in.Time, "time", "", "start time, HH:MM")
	fs.StringVar(&in.Location, "location", "", "venue")
	fs.IntVar(&in.TicketQuantity, "tickets", 0, "number of tickets")

	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	if errs := eventview.ValidateForm(in, a.clock.Now()); len(errs) > 0 {
		return formError(errs)
	}

	event, err := a.events.Create(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created %s (%s), %d tickets\n", event.Name, event.ID, event.AvailableTickets)

	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	name := fs.String("name", "", "event name")
	description := fs.String("description", "", "description")
	date := fs.String("date", "", "date, YYYY-MM-DD")
	tm := fs.String("time", "", "start time, HH:MM")
	location := fs.String("location", "", "venue")
	tickets := fs.Int("tickets", 0, "number of tickets")
	available := fs.Int("available", 0, "tickets still available")

	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	var patch models.EventPatch
	if fs.Changed("name") {
		patch.Name = name
	}
	if fs.Changed("description") {
		patch.Description = description
	}
	if fs.Changed("date") {
		patch.Date = date
	}
	if fs.Changed("time") {
		patch.Time = tm
	}
	if fs.Changed("location") {
		patch.Location = location
	}
	if fs.Changed("tickets") {
		patch.TicketQuantity = tickets
	}
	if fs.Changed("available") {
		patch.AvailableTickets = available
	}

	event, err := a.events.Update(ctx, fs.Arg(0), patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Updated %s (%s)\n", event.Name, event.ID)

	return nil
}

func (a *app) tickets(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	available, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.New("availableTickets must be a number")
	}

	event, err := a.events.UpdateTicketAvailability(ctx, args[0], available)
	if err != nil {
		return err
	}

	a.printTickets(event)

	return nil
}

func (a *app) sell(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	event, err := a.events.SellTicket(ctx, args[0])
	if err != nil {
		return err
	}

	a.printTickets(event)

	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	if err := a.events.Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Event deleted")

	return nil
}

func (a *app) printTickets(e *models.Event) {
	status := eventview.StatusOf(*e)
	fmt.Fprintf(a.out, "%s: %d/%d tickets left, %s\n",
		e.Name, e.AvailableTickets, e.TicketQuantity, status.Color().Sprint(string(status)))
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

func formError(errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, errs[field])
	}

	return errors.New(strings.Join(msgs, "; "))
}

// describe prefers the server's message, then the container's.
func describe(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback != "" && !errors.As(err, &apiErr) {
		return fallback + ": " + err.Error()
	}

	return err.Error()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
