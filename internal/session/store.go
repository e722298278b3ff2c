package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/wardrobe/internal/domain"
)

const defaultFetchTimeout = 30 * time.Second

// Store is the single source of truth for authentication state, the
// current user, master data and global UI signaling. Create one per
// process with New and pass it to every consumer.
type Store struct {
	client       domain.SessionClient
	kv           domain.KeyValueStore
	logger       *slog.Logger
	writer       *writer
	fetchTimeout time.Duration

	mu         sync.Mutex
	persisted  Persisted
	transient  Transient
	version    uint64
	generation uint64
	refresh    *Refresh
	observers  map[int]Observer
	nextID     int
}

// Option configures a Store
type Option func(*Store)

// WithFetchTimeout bounds each profile and master-data fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New creates a store. Call Start once to rehydrate from kv.
func New(kv domain.KeyValueStore, client domain.SessionClient, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		client:       client,
		kv:           kv,
		logger:       logger,
		writer:       newWriter(kv, logger),
		fetchTimeout: defaultFetchTimeout,
		observers:    make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{Persisted: s.persisted, Transient: s.transient, Version: s.version}
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.Token
}

func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.User
}

func (s *Store) MasterData() *domain.MasterData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.MasterData
}

func (s *Store) IsDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.IsDark
}

// Loading returns the loading flag and its message
func (s *Store) Loading() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.IsLoading, s.transient.LoadingMessage
}

// Modal returns the modal visibility and content
func (s *Store) Modal() (bool, any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transient.ModalVisible, s.transient.ModalContent
}

func (s *Store) ImageCacheBuster() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transient.ImageCacheBuster
}

// ImageVersion counts cache-buster toggles
func (s *Store) ImageVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transient.ImageVersion
}

// Version is the in-memory change counter
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers an observer and returns its unsubscribe function
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// changedLocked records one in-memory change and notifies observers
func (s *Store) changedLocked() {
	s.version++
	state := s.stateLocked()
	for _, o := range s.observers {
		o.OnChange(state)
	}
}

// Wait blocks until the current refresh has finished and every queued
// write has reached the key-value store. Fetch errors are not returned;
// they are observable through the Refresh itself.
func (s *Store) Wait(ctx context.Context) error {
	s.mu.Lock()
	r := s.refresh
	s.mu.Unlock()

	select {
	case <-r.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.writer.flush(ctx)
}

// Close cancels any in-flight refresh and drains pending writes.
// The key-value store itself is owned by the caller.
func (s *Store) Close() {
	s.mu.Lock()
	s.generation++
	s.refresh.Cancel()
	s.refresh = nil
	s.mu.Unlock()

	s.writer.close()
}
