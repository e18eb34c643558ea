package loadgen

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/yomu/leitura/pkg/logger"
)

// submitEntries posts entries concurrently through a worker pool.
func submitEntries(ctx context.Context, client *httpClient, config *Config, entries []entry, stats *Stats) error {
	logger.Get().Info(ctx, "submitting progress entries",
		logger.Int("entries", len(entries)),
		logger.Int("workers", config.Workers))

	url := config.BaseURL + "/progress"

	var (
		successful int64
		failed     int64
		submitted  int64
	)

	entryChan := make(chan entry, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for e := range entryChan {
				select {
				case <-ctx.Done():
					return
				default:
					atomic.AddInt64(&submitted, 1)
					if err := client.postJSON(ctx, url, e, nil, http.StatusCreated); err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							logger.Get().Warn(ctx, "progress submission failed", logger.Error(err))
						}
						continue
					}
					atomic.AddInt64(&successful, 1)
				}
			}
		}()
	}

	go func() {
		defer close(entryChan)
		for _, e := range entries {
			select {
			case <-ctx.Done():
				return
			case entryChan <- e:
			}
		}
	}()

	wg.Wait()

	stats.EntriesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EntriesSuccessful = int(atomic.LoadInt64(&successful))
	stats.EntriesFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "progress submission completed",
		logger.Int("successful", stats.EntriesSuccessful),
		logger.Int("failed", stats.EntriesFailed))
	return nil
}
