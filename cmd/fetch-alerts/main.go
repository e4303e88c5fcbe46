// Command fetch-alerts runs the fetch_alerts job once against a feed URL and
// prints the fetched JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariebrainware/alert-board/config"
	"github.com/ariebrainware/alert-board/feed"
	"github.com/ariebrainware/alert-board/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: fetch-alerts <url>")
		return 1
	}

	cfg := config.LoadConfig()
	client := feed.NewClient(cfg.FeedTimeout, nil)

	data, err := jobs.FetchAlertsWith(ctx, client, args[0], logger, nil)
	if err != nil {
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		logger.Error("write output", "error", err)
		return 1
	}
	return 0
}
