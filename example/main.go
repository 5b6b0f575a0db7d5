// Walkthrough of the SDK against an in-process mock backend.
//
// Usage:
//
//	go run ./example
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpalmerr/baaskit"
	"github.com/jpalmerr/baaskit/internal/mockbaas"
	"github.com/jpalmerr/baaskit/state"
)

const project = "demo"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start mock backend on a random port
	st := mockbaas.NewMemoryStore()
	mockbaas.Seed(st, project)
	addr, err := mockbaas.NewServer(st, logger, mockbaas.Config{}).Start(ctx, "127.0.0.1:0")
	if err != nil {
		logger.Error("failed to start mock backend", "error", err)
		os.Exit(1)
	}

	client, err := baaskit.New(
		baaskit.WithBaseURL("http://"+addr.String()),
		baaskit.WithProjectID(project),
		baaskit.WithTimeout(5*time.Second),
		baaskit.WithLogger(logger),
		baaskit.WithCallObserver(func(res baaskit.CallResult) {
			status := "ok"
			if !res.Succeeded() {
				status = res.Err.Error()
			}
			fmt.Printf("  -> %s %s %d (%s) %s\n", res.Method, res.Path, res.StatusCode, res.Latency.Round(time.Millisecond), status)
		}),
	)
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(ctx, client); err != nil {
		logger.Error("walkthrough failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *baaskit.Client) error {
	account := client.Account()

	fmt.Println("Sign up and log in")
	if _, err := account.Signup(ctx, baaskit.SignupRequest{UserID: "demo01", Password: "correct-horse", Name: "Demo"}); err != nil {
		return err
	}
	if _, err := account.Signup(ctx, baaskit.SignupRequest{UserID: "demo01", Password: "correct-horse"}); errors.Is(err, baaskit.ErrConflict) {
		fmt.Println("  second signup rejected: user id already in use")
	}
	if _, err := account.Login(ctx, baaskit.LoginRequest{UserID: "demo01", Password: "correct-horse"}); err != nil {
		return err
	}

	// a tracker exposes loading/error/data the way a UI would render it
	var info state.Tracker[*baaskit.AccountRecord]
	info.OnChange(func(s state.Snapshot[*baaskit.AccountRecord]) {
		if s.Loading {
			fmt.Println("  [account] loading...")
		}
	})
	if _, err := info.Do(ctx, account.Info); err != nil {
		return err
	}
	fmt.Printf("  [account] %s (%s)\n", info.Data().UserID, info.Data().Name)

	fmt.Println("Register recipients")
	rec, err := client.Recipients().Register(ctx, baaskit.RecipientRequest{Name: "Kim", Phone: "01012345678"})
	if err != nil {
		return err
	}
	fmt.Printf("  registered %s as %s\n", rec.Name, rec.Phone)

	_, err = client.Recipients().Register(ctx, baaskit.RecipientRequest{Name: "Lee", Phone: "02-123-4567"})
	for _, d := range baaskit.FieldErrors(err) {
		fmt.Printf("  rejected locally: %s %s\n", d.Field, d.Reason)
	}

	fmt.Println("Read the boards")
	notices, err := client.Board().Notices(ctx, baaskit.ListOptions{Limit: 2})
	if err != nil {
		return err
	}
	for _, p := range notices.Posts {
		fmt.Printf("  notice #%d %s\n", p.ID, p.Title)
	}
	faqs, err := client.Board().FAQs(ctx, baaskit.ListOptions{Keyword: "phone"})
	if err != nil {
		return err
	}
	for _, p := range faqs.Posts {
		fmt.Printf("  faq #%d %s\n", p.ID, p.Title)
	}

	fmt.Println("Log out")
	if err := account.Logout(ctx); err != nil {
		return err
	}
	if _, err := info.Do(ctx, account.Info); err != nil {
		fmt.Printf("  [account] error kept in tracker: %v\n", info.Err())
	}
	return nil
}
