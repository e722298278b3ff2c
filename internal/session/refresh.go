package session

import (
	"context"
	"errors"
	"sync"
)

// Refresh is the pair of profile and master-data fetches started by a
// login. Results are applied only while the refresh's generation is the
// store's current one; a logout or a newer login makes it stale.
type Refresh struct {
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}

	mu   sync.Mutex
	errs []error
}

func newRefresh(generation uint64) *Refresh {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresh{
		generation: generation,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Generation identifies the login this refresh belongs to
func (r *Refresh) Generation() uint64 {
	if r == nil {
		return 0
	}
	return r.generation
}

// Done is closed once both fetches have finished
func (r *Refresh) Done() <-chan struct{} {
	if r == nil {
		return closedChan
	}
	return r.done
}

// Wait blocks until both fetches finish and returns their joined errors
func (r *Refresh) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the joined fetch errors, nil while running or on success
func (r *Refresh) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.errs...)
}

// Cancel aborts in-flight fetches. Results that still arrive are discarded
// by the generation check, not by Cancel.
func (r *Refresh) Cancel() {
	if r != nil {
		r.cancel()
	}
}

func (r *Refresh) addErr(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}
