package jsonstore

import (
	"context"
	"fmt"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/repository"
)

// FindByName returns the user with the given login name.
func (s *Store) FindByName(_ context.Context, name string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Users {
		if s.state.Users[i].Name == name {
			user := s.state.Users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

// FindByID returns the user with the given id.
func (s *Store) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Users {
		if s.state.Users[i].ID == id {
			user := s.state.Users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Create appends a new user with the next id in the sequence. An empty
// passwordHash leaves the account in the must-set-password state.
func (s *Store) Create(_ context.Context, name string, role domain.Role, passwordHash string) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("jsonstore: unknown role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var nextID int64 = 1
	for i := range s.state.Users {
		if s.state.Users[i].Name == name {
			return nil, fmt.Errorf("jsonstore: user %q: %w", name, repository.ErrAlreadyExists)
		}
		if s.state.Users[i].ID >= nextID {
			nextID = s.state.Users[i].ID + 1
		}
	}

	user := domain.User{
		ID:           nextID,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
	}

	s.state.Users = append(s.state.Users, user)
	if err := s.saveLocked(); err != nil {
		s.state.Users = s.state.Users[:len(s.state.Users)-1]
		return nil, err
	}
	return &user, nil
}

// RecordFailedAttempt increments the user's failed-attempt counter and
// returns the updated value.
func (s *Store) RecordFailedAttempt(_ context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexByIDLocked(id)
	if err != nil {
		return 0, err
	}

	prev := s.state.Users[i]
	s.state.Users[i].FailedAttempts++
	if err := s.saveLocked(); err != nil {
		s.state.Users[i] = prev
		return 0, err
	}
	return s.state.Users[i].FailedAttempts, nil
}

// RecordSuccess resets the user's failed-attempt counter.
func (s *Store) RecordSuccess(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexByIDLocked(id)
	if err != nil {
		return err
	}

	prev := s.state.Users[i]
	s.state.Users[i].FailedAttempts = 0
	if err := s.saveLocked(); err != nil {
		s.state.Users[i] = prev
		return err
	}
	return nil
}

// SetBlocked updates the lockout flag. Unblocking clears the failed-attempt
// counter in the same write, so the two can never be observed half-applied.
func (s *Store) SetBlocked(_ context.Context, id int64, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexByIDLocked(id)
	if err != nil {
		return err
	}

	prev := s.state.Users[i]
	s.state.Users[i].Blocked = blocked
	if !blocked {
		s.state.Users[i].FailedAttempts = 0
	}
	if err := s.saveLocked(); err != nil {
		s.state.Users[i] = prev
		return err
	}
	return nil
}

// SetPassword replaces the stored credential hash.
func (s *Store) SetPassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexByIDLocked(id)
	if err != nil {
		return err
	}

	prev := s.state.Users[i]
	s.state.Users[i].PasswordHash = passwordHash
	if err := s.saveLocked(); err != nil {
		s.state.Users[i] = prev
		return err
	}
	return nil
}

// ListByRole returns all users holding the given role, in creation order.
func (s *Store) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.User
	for i := range s.state.Users {
		if s.state.Users[i].Role == role {
			out = append(out, s.state.Users[i])
		}
	}
	return out, nil
}

// ListBlocked returns all currently locked-out users.
func (s *Store) ListBlocked(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.User
	for i := range s.state.Users {
		if s.state.Users[i].Blocked {
			out = append(out, s.state.Users[i])
		}
	}
	return out, nil
}

func (s *Store) indexByIDLocked(id int64) (int, error) {
	for i := range s.state.Users {
		if s.state.Users[i].ID == id {
			return i, nil
		}
	}
	return 0, repository.ErrNotFound
}
