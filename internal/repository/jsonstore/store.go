// Package jsonstore persists the whole service state (users, audit log,
// runtime configuration) as a single JSON snapshot on disk. Every mutation
// rewrites the full snapshot before returning; a crash leaves either the
// previous or the new complete file, never a partial write.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/core/port"
)

var (
	_ port.UserRepository     = (*Store)(nil)
	_ port.AuditLogRepository = (*Store)(nil)
	_ port.ConfigRepository   = (*Store)(nil)
)

// Seed account names created on first boot, one per role, password unset.
const (
	SeedAdminName       = "Administrateur"
	SeedResidentialName = "Utilisateur1"
	SeedCommercialName  = "Utilisateur2"
)

type databaseState struct {
	Users  []domain.User              `json:"users"`
	Logs   []domain.AuditEntry        `json:"logs"`
	Config domain.ServerConfiguration `json:"config"`
}

// Store owns the in-memory state and its on-disk snapshot. All reads and
// mutations serialize on a single lock; the read-modify-persist sequence of
// every mutator runs entirely inside it, so concurrent failed logins can
// never both observe the same counter value.
type Store struct {
	mu     sync.Mutex
	path   string
	state  databaseState
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the snapshot at path, seeding defaults and the three initial
// accounts when no prior state exists. A malformed snapshot is an error;
// the store never silently discards existing state.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.state); err != nil {
			return nil, fmt.Errorf("jsonstore: parse %s: %w", path, err)
		}
		if err := s.state.Config.Validate(); err != nil {
			return nil, fmt.Errorf("jsonstore: invalid config in %s: %w", path, err)
		}
		logger.Info("state loaded",
			zap.String("path", path),
			zap.Int("users", len(s.state.Users)),
			zap.Int("logs", len(s.state.Logs)),
		)
		return s, nil
	case os.IsNotExist(err):
		if err := s.seed(); err != nil {
			return nil, err
		}
		logger.Info("state seeded", zap.String("path", path))
		return s, nil
	default:
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}
}

// WithClock injects a custom clock, primarily for testing.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Store) seed() error {
	s.state = databaseState{
		Users:  []domain.User{},
		Logs:   []domain.AuditEntry{},
		Config: domain.DefaultServerConfiguration(),
	}

	seeds := []struct {
		name string
		role domain.Role
	}{
		{SeedAdminName, domain.RoleAdmin},
		{SeedResidentialName, domain.RoleResidential},
		{SeedCommercialName, domain.RoleCommercial},
	}
	for _, seed := range seeds {
		s.state.Users = append(s.state.Users, domain.User{
			ID:   int64(len(s.state.Users) + 1),
			Name: seed.name,
			Role: seed.role,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes the full snapshot. Callers must hold s.mu.
//
// The write goes to a temporary file in the same directory, is synced, and
// is then renamed over the target, so the snapshot on disk is always a
// complete document.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonstore: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gatehouse-*.json")
	if err != nil {
		return fmt.Errorf("jsonstore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("jsonstore: write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("jsonstore: sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonstore: close snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("jsonstore: chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("jsonstore: commit snapshot: %w", err)
	}

	committed = true
	return nil
}
