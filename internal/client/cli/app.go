// Package cli is an interactive terminal front end over the client stores.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"eventboard/internal/client"
)

// App holds the stores and I/O of one terminal session.
type App struct {
	users  *client.UserStore
	events *client.EventStore
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

// NewApp builds an App reading commands from in and writing to out.
func NewApp(users *client.UserStore, events *client.EventStore, in io.Reader, out io.Writer) *App {
	return &App{
		users:  users,
		events: events,
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
}

// Run restores a previous session if the cookie jar has one, then runs the
// REPL until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	if err := a.users.Load(ctx); err != nil {
		a.printf("warning: could not restore session: %v\n", err)
	}
	if a.isLoggedIn() {
		if err := a.events.Load(ctx); err != nil {
			a.printf("warning: could not load events: %v\n", err)
		}
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.users.Current() != nil
}

func (a *App) status() string {
	if u := a.users.Current(); u != nil {
		return u.Username
	}
	return "guest"
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail reports err to the user and returns it so the REPL can ignore it.
func (a *App) fail(err error) error {
	a.printf("error: %v\n", err)
	return err
}
