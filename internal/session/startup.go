package session

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mmcdole/wardrobe/internal/domain"
)

// Start rehydrates the store from the key-value store. Saved user and
// master-data snapshots are loaded first so the session is usable offline;
// a saved token is then attached and refreshed unconditionally, even
// though it equals what was just read. The dark-mode preference is applied
// as is. Actions that run while Start is reading take precedence over the
// stored values. Start returns the refresh, or nil when there is no saved
// token to restore.
func (s *Store) Start(ctx context.Context) *Refresh {
	// Reads happen unlocked; anything that runs meanwhile wins
	s.mu.Lock()
	startGeneration, startVersion := s.generation, s.version
	s.mu.Unlock()

	token := s.read(ctx, KeyToken)
	userJSON := s.read(ctx, KeyUser)
	masterJSON := s.read(ctx, KeyMasterData)
	darkStr := s.read(ctx, KeyIsDark)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if darkStr != "" && s.version == startVersion {
		if dark, err := strconv.ParseBool(darkStr); err != nil {
			s.logger.Warn("ignoring malformed dark mode preference", "value", darkStr, "error", err)
		} else if dark != s.persisted.IsDark {
			s.persisted.IsDark = dark
			changed = true
		}
	}

	// A login or logout since the reads owns the session from here on
	if token == "" || s.persisted.Token != "" || s.generation != startGeneration {
		if changed {
			s.changedLocked()
		}
		return nil
	}

	if userJSON != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			s.logger.Warn("discarding unreadable user snapshot", "error", err)
			s.writer.delete(KeyUser)
		} else {
			s.persisted.User = &u
			changed = true
		}
	}
	if masterJSON != "" {
		var md domain.MasterData
		if err := json.Unmarshal([]byte(masterJSON), &md); err != nil {
			s.logger.Warn("discarding unreadable master data snapshot", "error", err)
			s.writer.delete(KeyMasterData)
		} else {
			s.persisted.MasterData = &md
			changed = true
		}
	}
	if changed {
		s.changedLocked()
	}

	s.logger.Info("restoring saved session")
	return s.loginLocked(token)
}

// read returns the stored value or "" when absent or unreadable
func (s *Store) read(ctx context.Context, key string) string {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Error("failed to read session field", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// Reload re-runs the profile and master-data fetch for the current token.
// It returns nil when logged out.
func (s *Store) Reload() *Refresh {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted.Token == "" {
		return nil
	}
	return s.loginLocked(s.persisted.Token)
}
