package cli

import (
	"context"
	"errors"
	"strings"
)

// Indirections so tests can script prompts.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for username, display name and password, creates the
// account and loads the event list.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return a.fail(err)
	}
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return a.fail(err)
	}

	user, err := a.users.Register(ctx, username, password, name)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Welcome, %s!\n", user.Name)
	return a.reload(ctx)
}

// Login prompts for credentials and loads the event list.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return a.fail(err)
	}

	user, err := a.users.Login(ctx, username, password)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Logged in as %s.\n", user.Name)
	return a.reload(ctx)
}

// Logout ends the session; the local caches are dropped even if the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.users.Logout(ctx)
	a.events.Reset()
	if err != nil {
		return a.fail(err)
	}
	a.printf("Logged out.\n")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u := a.users.Current()
	if u == nil {
		return a.fail(errors.New("not logged in"))
	}
	a.printf("%s (@%s) id=%s\n", u.Name, u.Username, u.ID)
	return nil
}

// Users prints the display names of the other users.
func (a *App) Users(ctx context.Context) error {
	names := a.users.Names()
	if len(names) == 0 {
		a.printf("No other users yet.\n")
		return nil
	}
	a.printf("%s\n", strings.Join(names, "\n"))
	return nil
}

func (a *App) reload(ctx context.Context) error {
	if err := a.events.Load(ctx); err != nil {
		return a.fail(err)
	}
	return nil
}
