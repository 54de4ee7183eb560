package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nyaya-ai/nyaya/internal/e2etest"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/logging"
)

// TestPublicAPI checks that the service answers and the legal catalog is searchable.
func TestPublicAPI(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var (
		resp  *e2etest.Response
		found struct {
			Sections []struct {
				SectionNumber string `json:"sectionNumber"`
			} `json:"sections"`
		}
		err error
	)

	if resp, err = client.Do(ctx, http.MethodGet, "/api/healthy", nil, nil); err != nil {
		return errors.Wrap(err, "probe health")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New("service unhealthy", slog.Int("status", resp.StatusCode))
	}
	if resp, err = client.Do(ctx, http.MethodGet, "/api/sections?q=theft", nil, nil); err != nil {
		return errors.Wrap(err, "search sections")
	}
	if err = resp.Decode(&found); err != nil {
		return err
	}
	if len(found.Sections) == 0 {
		return errors.New("legal catalog is empty")
	}
	return nil
}

// TestOfficerLogin logs in with the badge from NYAYA_SMOKE_BADGE when it is set.
func TestOfficerLogin(client *e2etest.Client) error {
	badge, ok := os.LookupEnv("NYAYA_SMOKE_BADGE")
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	if err := client.Login(ctx, badge, os.Getenv("NYAYA_SMOKE_PASSWORD")); err != nil {
		return errors.Wrap(err, "login officer")
	}
	resp, err := client.Do(ctx, http.MethodGet, "/api/police/me", nil, nil)
	if err != nil {
		return errors.Wrap(err, "fetch officer")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New("officer session not established", slog.Int("status", resp.StatusCode))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPublicAPI(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing public API", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestOfficerLogin(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing officer login", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
