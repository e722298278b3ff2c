package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/mmcdole/wardrobe/internal/domain"
)

// SetLoading sets the global loading flag and persists it.
// Clearing the flag also clears the loading message.
func (s *Store) SetLoading(flag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLoadingLocked(flag, s.transient.LoadingMessage)
}

// ShowLoading raises the loading flag with a message. The message is
// never persisted.
func (s *Store) ShowLoading(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLoadingLocked(true, message)
}

// HideLoading is SetLoading(false)
func (s *Store) HideLoading() {
	s.SetLoading(false)
}

func (s *Store) setLoadingLocked(flag bool, message string) {
	if !flag {
		message = ""
	}
	if s.persisted.IsLoading == flag && s.transient.LoadingMessage == message {
		return
	}
	if s.persisted.IsLoading != flag {
		s.writer.set(KeyIsLoading, strconv.FormatBool(flag))
	}
	s.persisted.IsLoading = flag
	s.transient.LoadingMessage = message
	s.changedLocked()
}

// SetDarkMode sets the theme preference and persists it
func (s *Store) SetDarkMode(flag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted.IsDark == flag {
		return
	}
	s.persisted.IsDark = flag
	s.writer.set(KeyIsDark, strconv.FormatBool(flag))
	s.changedLocked()
}

// SetUser replaces the current user. Nil clears it; a structurally equal
// user is a no-op.
func (s *Store) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUserLocked(u)
}

func (s *Store) setUserLocked(u *domain.User) {
	if u == nil {
		s.writer.delete(KeyUser)
		if s.persisted.User != nil {
			s.persisted.User = nil
			s.changedLocked()
		}
		return
	}
	if u.Equal(s.persisted.User) {
		return
	}

	data, err := json.Marshal(u)
	if err != nil {
		s.logger.Error("failed to serialize user", "error", err)
	} else {
		s.writer.set(KeyUser, string(data))
	}
	cp := *u
	s.persisted.User = &cp
	s.changedLocked()
}

// SetMasterData replaces the master data. Nil clears it; structurally equal
// data is a no-op.
func (s *Store) SetMasterData(md *domain.MasterData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMasterDataLocked(md)
}

func (s *Store) setMasterDataLocked(md *domain.MasterData) {
	if md == nil {
		s.writer.delete(KeyMasterData)
		if s.persisted.MasterData != nil {
			s.persisted.MasterData = nil
			s.changedLocked()
		}
		return
	}
	if md.Equal(s.persisted.MasterData) {
		return
	}

	data, err := json.Marshal(md)
	if err != nil {
		s.logger.Error("failed to serialize master data", "error", err)
	} else {
		s.writer.set(KeyMasterData, string(data))
	}
	s.persisted.MasterData = md.Clone()
	s.changedLocked()
}

// SetToken logs in with token, or logs out when token is empty.
//
// A new token is attached to the API client and persisted, then the user
// profile and master data are fetched in the background. The returned
// Refresh reports when both fetches are done; it is nil when the token is
// unchanged or on logout. Fetch failures are logged and leave the token in
// place.
func (s *Store) SetToken(token string) *Refresh {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		s.logoutLocked()
		return nil
	}
	if token == s.persisted.Token {
		return nil
	}

	s.writer.set(KeyToken, token)
	return s.loginLocked(token)
}

// Logout is SetToken("")
func (s *Store) Logout() {
	s.SetToken("")
}

func (s *Store) logoutLocked() {
	// Invalidate every outstanding fetch before touching state
	s.generation++
	s.refresh.Cancel()
	s.refresh = nil

	s.client.SetToken("")
	for _, key := range []string{KeyToken, KeyUser, KeyMasterData} {
		s.writer.delete(key)
	}

	if s.persisted.Token == "" && s.persisted.User == nil && s.persisted.MasterData == nil {
		return
	}
	s.persisted.Token = ""
	s.persisted.User = nil
	s.persisted.MasterData = nil
	s.changedLocked()
	s.logger.Info("logged out")
}

// loginLocked attaches token and starts the fetch pair without comparing
// against the current token. Startup relies on that.
func (s *Store) loginLocked(token string) *Refresh {
	s.client.SetToken(token)
	if s.persisted.Token != token {
		s.persisted.Token = token
		s.changedLocked()
	}

	s.generation++
	s.refresh.Cancel()
	r := newRefresh(s.generation)
	s.refresh = r

	s.logger.Info("token set, refreshing session", "generation", r.generation)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.fetchUser(r)
	}()
	go func() {
		defer wg.Done()
		s.fetchMasterData(r)
	}()
	go func() {
		wg.Wait()
		r.cancel()
		close(r.done)
	}()

	return r
}

func (s *Store) fetchUser(r *Refresh) {
	ctx, cancel := context.WithTimeout(r.ctx, s.fetchTimeout)
	defer cancel()

	u, err := s.client.GetAuthenticatedUser(ctx)
	if err != nil {
		s.fetchFailed(r, "user", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(r, "user") {
		return
	}
	s.setUserLocked(u)
}

func (s *Store) fetchMasterData(r *Refresh) {
	ctx, cancel := context.WithTimeout(r.ctx, s.fetchTimeout)
	defer cancel()

	md, err := s.client.GetMasterData(ctx)
	if err != nil {
		s.fetchFailed(r, "master data", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(r, "master data") {
		return
	}
	s.setMasterDataLocked(md)
}

// currentLocked reports whether r still belongs to the active login
func (s *Store) currentLocked(r *Refresh, what string) bool {
	if r.generation == s.generation {
		return true
	}
	s.logger.Debug("discarding stale fetch result", "fetch", what, "generation", r.generation, "current", s.generation)
	return false
}

func (s *Store) fetchFailed(r *Refresh, what string, err error) {
	r.addErr(fmt.Errorf("fetch %s: %w", what, err))

	s.mu.Lock()
	stale := r.generation != s.generation
	s.mu.Unlock()

	if stale && errors.Is(err, context.Canceled) {
		s.logger.Debug("fetch canceled", "fetch", what, "generation", r.generation)
		return
	}
	s.logger.Error("failed to fetch "+what, "error", err, "generation", r.generation)
}

// OpenModal shows the global modal with content
func (s *Store) OpenModal(content any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transient.ModalVisible = true
	s.transient.ModalContent = content
	s.changedLocked()
}

// CloseModal hides the modal and clears its content in one change
func (s *Store) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.transient.ModalVisible && s.transient.ModalContent == nil {
		return
	}
	s.transient.ModalVisible = false
	s.transient.ModalContent = nil
	s.changedLocked()
}

// ToggleImageCacheBuster flips the cache-buster flag and bumps the image
// version. Consumers treat any change as "refetch the image for the
// resource just uploaded"; the version never repeats.
func (s *Store) ToggleImageCacheBuster() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transient.ImageCacheBuster = !s.transient.ImageCacheBuster
	s.transient.ImageVersion++
	s.changedLocked()
}
