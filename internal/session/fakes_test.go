package session

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/wardrobe/internal/domain"
	wlog "github.com/mmcdole/wardrobe/internal/log"
)

// fakeKV counts writes per key
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	sets    map[string]int
	deletes map[string]int
	failSet error

	// onGet runs before every Get, outside the lock
	onGet func(key string)
}

func newFakeKV(seed map[string]string) *fakeKV {
	kv := &fakeKV{data: map[string]string{}, sets: map[string]int{}, deletes: map[string]int{}}
	for k, v := range seed {
		kv.data[k] = v
	}
	return kv
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.onGet != nil {
		f.onGet(key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet != nil {
		return f.failSet
	}
	f.sets[key]++
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes[key]++
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Close() error { return nil }

func (f *fakeKV) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeKV) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}

func (f *fakeKV) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fakeClient records attach calls and serves fetches through funcs
type fakeClient struct {
	mu          sync.Mutex
	attached    []string
	userCalls   int
	masterCalls int

	userFn   func(ctx context.Context) (*domain.User, error)
	masterFn func(ctx context.Context) (*domain.MasterData, error)
}

func newFakeClient(u *domain.User, md *domain.MasterData) *fakeClient {
	return &fakeClient{
		userFn:   func(context.Context) (*domain.User, error) { return u, nil },
		masterFn: func(context.Context) (*domain.MasterData, error) { return md, nil },
	}
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	f.attached = append(f.attached, token)
	f.mu.Unlock()
}

func (f *fakeClient) GetAuthenticatedUser(ctx context.Context) (*domain.User, error) {
	f.mu.Lock()
	f.userCalls++
	fn := f.userFn
	f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeClient) GetMasterData(ctx context.Context) (*domain.MasterData, error) {
	f.mu.Lock()
	f.masterCalls++
	fn := f.masterFn
	f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeClient) calls() (attached []string, user, master int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.attached...), f.userCalls, f.masterCalls
}

// recorder collects every notified state
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) OnChange(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func newTestStore(t *testing.T, kv *fakeKV, client *fakeClient) *Store {
	t.Helper()
	s := New(kv, client, wlog.NullLogger(), WithFetchTimeout(time.Second))
	t.Cleanup(s.Close)
	return s
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func sampleUser() *domain.User {
	return &domain.User{ID: 1, Name: "Ann"}
}

func sampleMasterData() *domain.MasterData {
	return &domain.MasterData{
		Occasions:  []domain.Occasion{{ID: 1, Name: "Work"}},
		Categories: []domain.Category{},
		Colors:     []domain.Color{},
		Materials:  []domain.Material{},
		Patterns:   []domain.Pattern{},
	}
}
