package jsonstore

import (
	"context"
	"sort"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// Append records an audit entry stamped with the current wall-clock time at
// millisecond resolution and persists it before returning. A persistence
// failure removes the entry again and is propagated to the caller.
func (s *Store) Append(_ context.Context, userID int64, action domain.Action) (domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.AuditEntry{
		UserID: userID,
		Action: action,
		At:     s.now().UnixMilli(),
	}

	s.state.Logs = append(s.state.Logs, entry)
	if err := s.saveLocked(); err != nil {
		s.state.Logs = s.state.Logs[:len(s.state.Logs)-1]
		return domain.AuditEntry{}, err
	}
	return entry, nil
}

// RecentForUser returns up to n entries for the user, newest first. Entries
// sharing a millisecond keep their append order, the later append ranking
// newer. n <= 0 returns the user's full history.
func (s *Store) RecentForUser(_ context.Context, userID int64, n int) ([]domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.AuditEntry
	for i := len(s.state.Logs) - 1; i >= 0; i-- {
		if s.state.Logs[i].UserID == userID {
			matched = append(matched, s.state.Logs[i])
		}
	}

	// The slice is in reverse append order already; a stable sort by
	// timestamp keeps that order for same-millisecond entries.
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].At > matched[b].At
	})

	if n > 0 && len(matched) > n {
		matched = matched[:n]
	}
	return matched, nil
}
