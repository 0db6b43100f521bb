package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"eventboard/config"
	"eventboard/internal/client"
	"eventboard/internal/client/cli"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	logger := config.NewLogger()

	apiURL := os.Getenv("EVENTBOARD_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	flag.StringVar(&apiURL, "api", apiURL, "eventboard server base URL (env EVENTBOARD_API_URL)")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	api, err := client.New(apiURL, nil)
	if err != nil {
		logger.Error("can't create api client", "error", err)
		os.Exit(1)
	}
	api.SetTimeout(*timeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(client.NewUserStore(api), client.NewEventStore(api), os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		logger.Error("cli stopped", "error", err)
		os.Exit(1)
	}
}
