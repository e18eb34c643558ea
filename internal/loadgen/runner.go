// Package loadgen drives the HTTP API with synthetic reading activity:
// it seeds users and books, submits progress entries concurrently, then
// fetches the general ranking and checks its ordering.
package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yomu/leitura/pkg/logger"
)

// settleDelay gives the recalculation worker time to refresh snapshots
// after the last submission. It must exceed the staleness throttle so at
// least one recompute lands after the load finishes.
const settleDelay = 10 * time.Second

// Run executes a complete load cycle against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("entries", config.NumEntries),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	userIDs, bookIDs, err := seedUsers(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	entries := generateEntries(ctx, config, userIDs, bookIDs)

	if err := submitEntries(ctx, client, config, entries, stats); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	logger.Get().Info(ctx, "waiting for ranking snapshots to settle")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(settleDelay):
	}

	snap, err := fetchRanking(ctx, client, config)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}
	stats.RankingEntries = len(snap.Entries)

	if err := verifyRanking(snap); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "load run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is reachable.
func checkServiceHealth(ctx context.Context, client *httpClient, config *Config) error {
	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchRanking retrieves the general TOTAL ranking snapshot.
func fetchRanking(ctx context.Context, client *httpClient, config *Config) (*rankingSnapshot, error) {
	q := url.Values{}
	q.Set("scope", "GENERAL")
	q.Set("period", "TOTAL")
	q.Set("limit", strconv.Itoa(config.TopN))

	resp, err := client.get(ctx, config.BaseURL+"/rankings?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var snap rankingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// verifyRanking checks that scores descend and ranks are contiguous.
func verifyRanking(snap *rankingSnapshot) error {
	for i, e := range snap.Entries {
		if e.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d, want %d", i, e.Rank, i+1)
		}
		if i > 0 && e.Score > snap.Entries[i-1].Score {
			return fmt.Errorf("entry %d score %d exceeds predecessor score %d", i, e.Score, snap.Entries[i-1].Score)
		}
	}
	return nil
}

// displayFinalStats prints the final load run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, entriesPerSecond float64

	if stats.EntriesSubmitted > 0 {
		successRate = float64(stats.EntriesSuccessful) / float64(stats.EntriesSubmitted) * 100
	}
	if stats.Duration > 0 {
		entriesPerSecond = float64(stats.EntriesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("usersCreated", stats.UsersCreated),
		logger.Int("booksCreated", stats.BooksCreated),
		logger.Int("entriesSubmitted", stats.EntriesSubmitted),
		logger.Int("entriesSuccessful", stats.EntriesSuccessful),
		logger.Int("entriesFailed", stats.EntriesFailed),
		logger.Int("rankingEntries", stats.RankingEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("entriesPerSecond", entriesPerSecond))
}
