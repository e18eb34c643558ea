package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/adapters/mq/queue"
	"github.com/yomu/leitura/internal/adapters/mq/worker"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockQueue feeds events to workers through a plain channel.
type mockQueue struct {
	eventChan chan worker.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{eventChan: make(chan worker.Event, 10)}
}

func (mq *mockQueue) Dequeue(_ context.Context) <-chan worker.Event {
	return mq.eventChan
}

func (mq *mockQueue) Close() error {
	close(mq.eventChan)
	return nil
}

func (mq *mockQueue) addEvent(e worker.Event) {
	mq.eventChan <- e
}

// mockRecalculator records events and can fail per user.
type mockRecalculator struct {
	mu     sync.Mutex
	seen   []string
	errors map[string]error
}

func newMockRecalculator() *mockRecalculator {
	return &mockRecalculator{errors: make(map[string]error)}
}

func (m *mockRecalculator) Recalculate(_ context.Context, event worker.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, event.UserID)
	return m.errors[event.UserID]
}

func (m *mockRecalculator) setError(userID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[userID] = err
}

func (m *mockRecalculator) seenUsers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.seen))
	copy(out, m.seen)
	return out
}

func TestInMemoryWorker(t *testing.T) {
	Convey("Given a new InMemoryWorker", t, func() {
		q := newMockQueue()
		recalc := newMockRecalculator()

		Convey("When creating a worker with default options", func() {
			w := worker.NewInMemoryWorker(q, recalc)
			So(w, ShouldNotBeNil)
		})

		Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(q, recalc, worker.WithName("test-worker"))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go w.Run(ctx)
			time.Sleep(10 * time.Millisecond)

			Convey("And an event arrives", func() {
				q.addEvent(model.ProgressRecorded{UserID: "u-1", RecordedAt: time.Now()})
				time.Sleep(50 * time.Millisecond)

				Convey("Then the recalculator sees it", func() {
					So(recalc.seenUsers(), ShouldContain, "u-1")
				})
			})

			Convey("And a recalculation fails", func() {
				recalc.setError("u-bad", errors.New("snapshot store unavailable"))
				q.addEvent(model.ProgressRecorded{UserID: "u-bad", RecordedAt: time.Now()})
				q.addEvent(model.ProgressRecorded{UserID: "u-ok", RecordedAt: time.Now()})
				time.Sleep(50 * time.Millisecond)

				Convey("Then the worker keeps processing later events", func() {
					seen := recalc.seenUsers()
					So(seen, ShouldContain, "u-bad")
					So(seen, ShouldContain, "u-ok")
				})
			})

			Convey("And the worker is shut down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})

		Convey("When the queue channel closes", func() {
			w := worker.NewInMemoryWorker(q, recalc)
			ctx := context.Background()

			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()

			_ = q.Close()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("worker did not exit after queue close")
			}
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		recalc := newMockRecalculator()
		pool := worker.NewPool(4, q, recalc)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		Convey("When events are enqueued", func() {
			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, model.ProgressRecorded{UserID: "u-1", RecordedAt: time.Now()}), ShouldBeTrue)
			}
			time.Sleep(100 * time.Millisecond)

			Convey("Then every event is processed exactly once", func() {
				So(len(recalc.seenUsers()), ShouldEqual, 20)
			})
		})

		Convey("When the pool is shut down", func() {
			So(pool.Shutdown(ctx), ShouldBeNil)
		})
	})
}
