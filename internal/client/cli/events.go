package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"eventboard/internal/client"
	"eventboard/internal/domain"
)

// List prints one of the event views: list (filtered), mine, joined or upcoming.
func (a *App) List(ctx context.Context, view string) error {
	userID := a.users.Current().ID
	var events []domain.EventDetails
	switch view {
	case "mine":
		events = a.events.Mine(userID)
	case "joined":
		events = a.events.Joined(userID)
	case "upcoming":
		events = a.events.Upcoming(a.now())
	default:
		events = a.events.Filtered()
	}

	if len(events) == 0 {
		a.printf("No events found.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tHOST\tATTENDEES\t")
	for _, e := range events {
		mark := ""
		if e.HasAttendee(userID) {
			mark = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%s\t\n", e.ID, e.Title, e.Date, e.Host.Name, len(e.Attendees), mark)
	}
	return tw.Flush()
}

func (a *App) Stats(ctx context.Context) error {
	st := a.events.Stats(a.users.Current().ID, a.now())
	a.printf("Total: %d  Upcoming: %d  Joined: %d\n", st.Total, st.Upcoming, st.Joined)
	return nil
}

// Show prints an event with its attendees, asking the server when it isn't cached.
func (a *App) Show(ctx context.Context, id string) error {
	e, ok := a.events.Get(id)
	if !ok {
		fetched, err := a.events.Fetch(ctx, id)
		if err != nil {
			return a.fail(err)
		}
		e = *fetched
	}
	a.printf("%s\n  date: %s\n  host: %s (@%s)\n", e.Title, e.Date, e.Host.Name, e.Host.Username)
	if e.Description != "" {
		a.printf("  %s\n", e.Description)
	}
	names := make([]string, 0, len(e.Attendees))
	for _, p := range e.Attendees {
		names = append(names, p.Name)
	}
	a.printf("  attendees (%d): %s\n", len(names), strings.Join(names, ", "))
	return nil
}

func (a *App) Create(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return a.fail(err)
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return a.fail(err)
	}
	date, err := getSimpleText(a.reader, "Enter date (e.g. 2030-01-31 or 2030-01-31T18:00)", a.out)
	if err != nil {
		return a.fail(err)
	}

	e, err := a.events.Create(ctx, client.EventInput{Title: title, Description: description, Date: date})
	if err != nil {
		return a.fail(err)
	}
	a.printf("Created %s (%s).\n", e.Title, e.ID)
	return nil
}

// Edit prompts for each field with its current value; only changed fields are sent.
func (a *App) Edit(ctx context.Context, id string) error {
	current, ok := a.events.Get(id)
	if !ok {
		return a.fail(fmt.Errorf("event %s not found, try list", id))
	}

	var update client.EventUpdate
	prompts := []struct {
		label   string
		current string
		dst     **string
	}{
		{"Title", current.Title, &update.Title},
		{"Description", current.Description, &update.Description},
		{"Date", current.Date, &update.Date},
	}
	for _, p := range prompts {
		value, changed, err := GetOptionalText(a.reader, p.label, p.current, a.out)
		if err != nil {
			return a.fail(err)
		}
		if changed {
			*p.dst = &value
		}
	}
	if update == (client.EventUpdate{}) {
		a.printf("Nothing to change.\n")
		return nil
	}

	e, err := a.events.Update(ctx, id, update)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Updated %s.\n", e.Title)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.events.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	a.printf("Deleted %s.\n", id)
	return nil
}

func (a *App) Attend(ctx context.Context, id string) error {
	e, err := a.events.Attend(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	a.printf("You are attending %s (%d attendees).\n", e.Title, len(e.Attendees))
	return nil
}

func (a *App) Unattend(ctx context.Context, id string) error {
	e, err := a.events.Unattend(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	a.printf("You left %s (%d attendees).\n", e.Title, len(e.Attendees))
	return nil
}

// SetFilter parses host=<name> and date=<date> arguments. A name with spaces
// continues until the next key.
func (a *App) SetFilter(ctx context.Context, args []string) error {
	f := a.events.Filter()
	var key string
	var host []string
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		switch {
		case ok && k == "host":
			key, host = "host", []string{v}
		case ok && k == "date":
			key, f.Date = "date", v
		case !ok && key == "host":
			host = append(host, arg)
		default:
			return a.fail(errors.New("usage: filter host=<name> date=<date>"))
		}
	}
	if host != nil {
		f.Host = strings.Join(host, " ")
	}
	a.events.SetFilter(f)
	a.printf("Filter: host=%q date=%q\n", f.Host, f.Date)
	return nil
}

func (a *App) ClearFilter(ctx context.Context) error {
	a.events.SetFilter(client.Filter{})
	a.printf("Filter cleared.\n")
	return nil
}
