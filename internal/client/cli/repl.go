package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Users(ctx context.Context) error
	List(ctx context.Context, view string) error
	Stats(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Attend(ctx context.Context, id string) error
	Unattend(ctx context.Context, id string) error
	SetFilter(ctx context.Context, args []string) error
	ClearFilter(ctx context.Context) error
}

const (
	guestHelp = "Available commands: register, login, help, exit"
	userHelp  = "Available commands: list, mine, joined, upcoming, stats, show <id>, create, edit <id>, " +
		"delete <id>, attend <id>, unattend <id>, filter host=<name> date=<date>, clear, users, me, logout, help, exit"
)

// idCommands take exactly one event ID argument.
var idCommands = map[string]func(execIface, context.Context, string) error{
	"show":     execIface.Show,
	"edit":     execIface.Edit,
	"delete":   execIface.Delete,
	"attend":   execIface.Attend,
	"unattend": execIface.Unattend,
}

// runREPL reads commands from reader until EOF, exit or quit. Handlers report
// their own errors, so returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "eb %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, userHelp)
			} else {
				fmt.Fprintln(w, guestHelp)
			}
			continue
		case "register":
			_ = a.Register(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		}

		if !a.isLoggedIn() {
			fmt.Fprintf(w, "Unknown command or login required: %s\n", cmd)
			continue
		}

		if op, ok := idCommands[cmd]; ok {
			if len(args) != 1 {
				fmt.Fprintf(w, "usage: %s <id>\n", cmd)
				continue
			}
			_ = op(a, ctx, args[0])
			continue
		}

		switch cmd {
		case "logout":
			_ = a.Logout(ctx)
		case "me":
			_ = a.Me(ctx)
		case "users":
			_ = a.Users(ctx)
		case "l", "list", "mine", "joined", "upcoming":
			_ = a.List(ctx, cmd)
		case "stats":
			_ = a.Stats(ctx)
		case "create":
			_ = a.Create(ctx)
		case "filter":
			_ = a.SetFilter(ctx, args)
		case "clear":
			_ = a.ClearFilter(ctx)
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
