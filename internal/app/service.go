// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/yomu/leitura/internal/adapters/mq/queue"
	workerpool "github.com/yomu/leitura/internal/adapters/mq/worker"
	repository "github.com/yomu/leitura/internal/adapters/repository"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/ranking"
	"github.com/yomu/leitura/pkg/logger"
	"github.com/yomu/leitura/pkg/metrics"
)

// Default tuning values.
const (
	defaultQueueSize      = 10000
	defaultThrottleWindow = 5 * time.Minute
	workerPerCPU          = 2
)

// Service implements the reading-gamification core: the synchronous
// progress-recording write path and the asynchronous ranking
// recalculation behind it.
type Service struct {
	mu sync.RWMutex

	// Stores
	users         repository.UserStore
	books         repository.BookStore
	progress      repository.ProgressStore
	goals         repository.GoalStore
	friends       repository.FriendStore
	notifications repository.NotificationStore
	referrals     repository.ReferralStore
	snapshots     repository.SnapshotStore

	// Recompute path
	eventQueue eventqueue.Queue
	engine     *ranking.Engine
	scheduler  *ranking.Scheduler
	workerPool *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	throttleWindow time.Duration
	clock          model.Clock

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of recalculation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithThrottleWindow sets the staleness throttle for ranking recomputation.
func WithThrottleWindow(window time.Duration) Option {
	return func(s *Service) {
		if window >= 0 {
			s.throttleWindow = window
		}
	}
}

// WithClock overrides the service clock.
func WithClock(clock model.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * workerPerCPU,
		queueSize:      defaultQueueSize,
		throttleWindow: defaultThrottleWindow,
		clock:          model.SystemClock(),
		logger:         nil, // replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting gamification service...")

	s.users = repository.NewMemoryUserStore()
	s.books = repository.NewMemoryBookStore()
	s.progress = repository.NewMemoryProgressStore()
	s.goals = repository.NewMemoryGoalStore()
	s.friends = repository.NewMemoryFriendStore()
	s.notifications = repository.NewMemoryNotificationStore()
	s.referrals = repository.NewMemoryReferralStore()
	s.snapshots = repository.NewMemorySnapshotStore()

	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.engine = ranking.NewEngine(s.progress, s.friends, s.snapshots,
		ranking.WithEngineClock(s.clock),
	)
	s.scheduler = ranking.NewScheduler(s.engine, s.snapshots,
		ranking.WithThrottleWindow(s.throttleWindow),
		ranking.WithSchedulerClock(s.clock),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.scheduler)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "gamification service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("throttleWindow", s.throttleWindow),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping gamification service...")

	// Closing the queue first drains the dequeue channel so workers
	// exit on their own.
	if s.eventQueue != nil {
		_ = s.eventQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "gamification service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		totalUsers := s.users.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalUsers"] = totalUsers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalUsers(totalUsers)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
