package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/liftcalc/internal/e2etest"
	"github.com/myrjola/liftcalc/internal/logging"
	"github.com/myrjola/liftcalc/internal/testhelpers"
)

const (
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	numLifters              = 50
	baseWeight              = 135
	weightRange             = 300
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

// Lifter is one simulated user with its own session.
type Lifter struct {
	ID     int
	Client *e2etest.Client
}

// SetupLifters creates a client with a fresh cookie jar for each lifter.
func SetupLifters(url string, n int) ([]*Lifter, error) {
	lifters := make([]*Lifter, 0, n)
	for i := range n {
		client, err := e2etest.NewClient(url)
		if err != nil {
			return nil, fmt.Errorf("create client for lifter %d: %w", i, err)
		}
		lifters = append(lifters, &Lifter{ID: i, Client: client})
	}
	return lifters, nil
}

// LiftScenario works up to a single, loads the target on the plates page, then opens the rest timer and the history.
func LiftScenario(ctx context.Context, lifter *Lifter, logger *slog.Logger) error {
	client := lifter.Client
	target := baseWeight + (time.Now().Nanosecond()+lifter.ID*7)%weightRange //nolint:mnd // spread the targets.
	targetStr := strconv.Itoa(target)

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return fmt.Errorf("get home: %w", err)
	}
	if doc, err = client.SubmitForm(ctx, doc, "/calculate", map[string]string{
		"Exercise":            "Squat",
		"Mode":                "1rm",
		"Target weight (lbs)": targetStr,
	}); err != nil {
		return fmt.Errorf("submit calculation: %w", err)
	}
	if doc.Find(".set-row").Length() == 0 {
		return errors.New("no sets in calculation result")
	}

	if doc, err = client.GetDoc(ctx, "/plates?weight="+targetStr); err != nil {
		return fmt.Errorf("get plates: %w", err)
	}
	if doc.Find(".plate-load").Length() == 0 {
		return errors.New("plate load missing")
	}

	if _, err = client.GetDoc(ctx, "/timer?pattern=1rm&interval=180"); err != nil {
		return fmt.Errorf("get timer: %w", err)
	}

	if doc, err = client.GetDoc(ctx, "/history"); err != nil {
		return fmt.Errorf("get history: %w", err)
	}
	// History is shared by all lifters and capped, so other lifters may already have pushed this entry out.
	if doc.Find(".history-entry").Length() == 0 {
		return errors.New("history is empty")
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "lift scenario completed",
		slog.Int("lifter", lifter.ID), slog.Int("target", target))
	return nil
}

// RunLoadTest runs one scenario per lifter concurrently and fails when too many of them fail.
func RunLoadTest(ctx context.Context, lifters []*Lifter, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_lifters", len(lifters)))

	var successCount, failureCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for _, lifter := range lifters {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := LiftScenario(scenarioCtx, lifter, logger); err != nil {
				failureCount.Add(1)
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.Int("lifter", lifter.ID), slog.Any("error", err))
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / float64(len(lifters)) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	lifters, err := SetupLifters(url, numLifters)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to setup lifters", slog.Any("error", err))
		os.Exit(1)
	}
	if err = lifters[0].Client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err = RunLoadTest(ctx, lifters, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("lifters_tested", len(lifters)))
}
