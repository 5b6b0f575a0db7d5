// Standalone mock backend for trying the CLI and SDK locally.
//
// Usage:
//
//	go run ./example/cmd/mockserver --addr :8080 --project demo
//
// Then in another terminal:
//
//	go run ./cmd/baaskit board list --base-url http://localhost:8080 --project-id demo --kind all
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/jpalmerr/baaskit/internal/mockbaas"
)

func main() {
	addr := pflag.String("addr", ":8080", "listen address")
	project := pflag.String("project", "demo", "project seeded with board posts")
	secure := pflag.Bool("secure-cookies", false, "mark session cookies Secure with SameSite=None")
	rps := pflag.Float64("rate-limit", 0, "requests per second per client IP; 0 disables")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	st := mockbaas.NewMemoryStore()
	mockbaas.Seed(st, *project)

	srv := mockbaas.NewServer(st, logger, mockbaas.Config{
		SecureCookies: *secure,
		RateLimit:     rate.Limit(*rps),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bound, err := srv.Start(ctx, *addr)
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Mock backend listening on %s (project %q)\n", bound, *project)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	events := st.Subscribe()
	defer st.Unsubscribe(events)

	for {
		select {
		case ev := <-events:
			logger.Info("recipient registered",
				"project_id", ev.ProjectID,
				"name", ev.Recipient.Name,
				"phone", ev.Recipient.Phone,
			)
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		}
	}
}
