package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/liftcalc/internal/e2etest"
	"github.com/myrjola/liftcalc/internal/logging"
	"github.com/myrjola/liftcalc/internal/testhelpers"
)

// TestCalculate submits a 1RM work-up and checks that every set is listed.
func TestCalculate(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var (
		doc *goquery.Document
		err error
	)

	if doc, err = client.GetDoc(ctx, "/"); err != nil {
		return fmt.Errorf("get home: %w", err)
	}
	if doc, err = client.SubmitForm(ctx, doc, "/calculate", map[string]string{
		"Mode":                "1rm",
		"Target weight (lbs)": "300",
	}); err != nil {
		return fmt.Errorf("submit calculation: %w", err)
	}
	if got := doc.Find(".set-row").Length(); got != 7 { //nolint:mnd // sets in the 1RM work-up.
		return fmt.Errorf("expected 7 sets, got %d", got)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = TestCalculate(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing calculation", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
