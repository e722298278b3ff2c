package session

import "github.com/mmcdole/wardrobe/internal/domain"

// Keys in the persistent key-value store
const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeyIsDark     = "isDark"
	KeyIsLoading  = "isLoading"
	KeyMasterData = "masterData"
)

// PersistedFields is the complete set of keys the store writes.
// Anything not listed here lives only in memory.
var PersistedFields = []string{KeyToken, KeyUser, KeyIsDark, KeyIsLoading, KeyMasterData}

// Persisted holds the fields mirrored to the key-value store.
// User and MasterData are shared with readers and must not be mutated.
type Persisted struct {
	Token      string
	User       *domain.User
	MasterData *domain.MasterData
	IsDark     bool
	IsLoading  bool
}

// Transient holds session-only UI state
type Transient struct {
	LoadingMessage   string
	ModalVisible     bool
	ModalContent     any
	ImageCacheBuster bool
	ImageVersion     uint64 // bumped by every toggle
}

// State is a point-in-time copy of the store.
// Version increases by one for every in-memory change.
type State struct {
	Persisted
	Transient
	Version uint64
}

// Authenticated reports whether a token is present
func (s State) Authenticated() bool {
	return s.Token != ""
}

// LoggedIn reports whether the session has both a token and a profile.
// A token without a user means the profile fetch has not succeeded yet.
func (s State) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// Observer receives a copy of the state after every in-memory change.
// OnChange runs while the store is locked: it must not block and must not
// call back into the store.
type Observer interface {
	OnChange(state State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

func (f ObserverFunc) OnChange(state State) { f(state) }
