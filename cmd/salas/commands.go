package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"salas/internal/composer"
	"salas/internal/config"
	"salas/internal/export"
	"salas/internal/models"
	"salas/internal/service"

	"github.com/rs/zerolog"
)

const usage = `usage: salas <command> [flags]

commands:
  login -u USER [-p PASSWORD]   obtain a token (password falls back to SALAS_PASSWORD);
                                with session.backend=memory it lasts for this run only,
                                use session.backend=redis or SALAS_TOKEN to reuse it
  logout                        drop the stored token
  whoami                        show the active session
  rooms                         list rooms
  room ID                       show one room
  reservations [-room ID]       list reservations
  reserve -room ID -start-date D -start-time HH:MM -end-date D -end-time HH:MM [-now-start]
  cancel ID                     cancel a reservation
  export [-o FILE]              write rooms and reservations to xlsx
`

var errUsage = errors.New("invalid usage")

type app struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	auth    *service.AuthService
	booking *service.BookingService
	out     io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		if err := a.auth.Logout(ctx); err != nil {
			return err
		}
		return a.print(map[string]bool{"logged_in": false})
	case "whoami":
		cred, err := a.auth.Whoami()
		if err != nil {
			return err
		}
		return a.print(cred)
	case "rooms":
		rooms, err := a.booking.Rooms(ctx)
		if err != nil {
			return err
		}
		return a.print(rooms)
	case "room":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		room, err := a.booking.Room(ctx, id)
		if err != nil {
			return err
		}
		return a.print(room)
	case "reservations":
		return a.reservations(ctx, rest)
	case "reserve":
		return a.reserve(ctx, rest)
	case "cancel":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := a.booking.Cancel(ctx, id); err != nil {
			return err
		}
		return a.print(map[string]int64{"canceled": id})
	case "export":
		return a.export(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("SALAS_PASSWORD")
	}

	cred, err := a.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	return a.print(cred)
}

func (a *app) reservations(ctx context.Context, args []string) error {
	fs := newFlagSet("reservations")
	room := fs.Int64("room", 0, "filter by room id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := url.Values{}
	if *room > 0 {
		params.Set("room", strconv.FormatInt(*room, 10))
	}
	list, err := a.booking.Reservations(ctx, params)
	if err != nil {
		return err
	}
	return a.print(list)
}

func (a *app) reserve(ctx context.Context, args []string) error {
	fs := newFlagSet("reserve")
	roomID := fs.Int64("room", 0, "room id")
	var draft models.ReservationDraft
	fs.StringVar(&draft.StartDate, "start-date", "", "start date YYYY-MM-DD")
	fs.StringVar(&draft.StartTime, "start-time", "", "start time HH:MM")
	fs.StringVar(&draft.EndDate, "end-date", "", "end date YYYY-MM-DD (defaults to start date)")
	fs.StringVar(&draft.EndTime, "end-time", "", "end time HH:MM")
	nowStart := fs.Bool("now-start", false, "start now")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *roomID <= 0 {
		return fmt.Errorf("%w: -room is required", errUsage)
	}

	if *nowStart {
		a.booking.Composer().SetCurrentTime(&draft, composer.FieldStartDate, composer.FieldStartTime)
	}
	if draft.EndDate == "" {
		draft.EndDate = draft.StartDate
	}

	reservation, err := a.booking.Book(ctx, *roomID, draft)
	if err != nil {
		return err
	}
	return a.print(reservation)
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	out := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = filepath.Join(a.cfg.Exports.Path, fmt.Sprintf("reservations_%s.xlsx", time.Now().Format("2006-01-02_150405")))
	}

	rooms, err := a.booking.Rooms(ctx)
	if err != nil {
		return err
	}
	reservations, err := a.booking.Reservations(ctx, nil)
	if err != nil {
		return err
	}
	if err := export.WriteReservations(path, rooms, reservations); err != nil {
		return err
	}

	a.logger.Info().Str("file_path", path).Int("rooms", len(rooms)).Int("reservations", len(reservations)).Msg("export written")
	return a.print(map[string]string{"file": path})
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one id", errUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", errUsage, args[0])
	}
	return id, nil
}
