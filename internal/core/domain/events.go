package domain

import "time"

// AccountEvent represents the payload for gatehouse.account.* messages
// emitted to the event bus whenever an audit entry is recorded.
type AccountEvent struct {
	EventID  string
	UserID   int64
	UserName string
	Action   Action
	At       time.Time
}
