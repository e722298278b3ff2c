package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/wardrobe/internal/domain"
)

const writeTimeout = 5 * time.Second

type writeOp struct {
	key    string
	value  string
	delete bool
	flush  chan struct{} // barrier: closed once every earlier op is done
}

// writer applies key-value writes in enqueue order on one goroutine.
// Enqueueing never blocks; failures are logged and dropped.
type writer struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu      sync.Mutex
	queue   []writeOp
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

func newWriter(kv domain.KeyValueStore, logger *slog.Logger) *writer {
	w := &writer{
		kv:      kv,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) set(key, value string) {
	w.enqueue(writeOp{key: key, value: value})
}

func (w *writer) delete(key string) {
	w.enqueue(writeOp{key: key, delete: true})
}

func (w *writer) enqueue(op writeOp) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("session write after close dropped", "key", op.key)
		return false
	}
	w.queue = append(w.queue, op)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

// flush waits until every write enqueued before the call has been applied
func (w *writer) flush(ctx context.Context) error {
	done := make(chan struct{})
	if !w.enqueue(writeOp{flush: done}) {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the goroutine
func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return
	}
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	<-w.stopped
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		w.mu.Lock()
		batch := w.queue
		w.queue = nil
		closed := w.closed
		w.mu.Unlock()

		for _, op := range batch {
			w.apply(op)
		}

		if closed && len(batch) == 0 {
			return
		}
		if len(batch) > 0 {
			continue
		}
		<-w.wake
	}
}

func (w *writer) apply(op writeOp) {
	if op.flush != nil {
		close(op.flush)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var err error
	if op.delete {
		err = w.kv.Delete(ctx, op.key)
	} else {
		err = w.kv.Set(ctx, op.key, op.value)
	}
	if err != nil {
		w.logger.Error("failed to persist session field", "key", op.key, "delete", op.delete, "error", err)
	}
}
