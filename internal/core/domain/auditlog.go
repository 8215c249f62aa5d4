package domain

// Action enumerates the security-relevant account events recorded in the
// audit log.
type Action string

const (
	ActionLoginFail        Action = "login_fail"
	ActionLoginSuccess     Action = "login_success"
	ActionChangePassword   Action = "change_password"
	ActionAccountBlocked   Action = "account_blocked"
	ActionAccountUnblocked Action = "account_unblocked"
)

// AuditEntry is an immutable fact about an account. Entries are never
// mutated or deleted once appended.
type AuditEntry struct {
	UserID int64  `json:"user_id"`
	Action Action `json:"action"`
	// At is wall-clock time in milliseconds since the Unix epoch.
	At int64 `json:"done_at"`
}
