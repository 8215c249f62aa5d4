package jsonstore

import (
	"context"
	"fmt"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// Get returns the current runtime configuration. Callers re-read it for
// every policy or lockout decision; nothing is cached across requests.
func (s *Store) Get(_ context.Context) (domain.ServerConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Config, nil
}

// Update validates and persists a new runtime configuration.
func (s *Store) Update(_ context.Context, cfg domain.ServerConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("jsonstore: reject config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.Config
	s.state.Config = cfg
	if err := s.saveLocked(); err != nil {
		s.state.Config = prev
		return err
	}
	return nil
}
