package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes a user as returned by the API. Password material
// never appears here.
type UserSummary struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Role           domain.Role `json:"role"`
	Blocked        bool        `json:"blocked"`
	FailedAttempts int         `json:"failed_attempts"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:             user.ID,
		Name:           user.Name,
		Role:           user.Role,
		Blocked:        user.Blocked,
		FailedAttempts: user.FailedAttempts,
	}
}

func newUserSummaries(users []domain.User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, user := range users {
		out[i] = newUserSummary(user)
	}
	return out
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
}

// LoginResponse describes the response returned for a successful login.
// Status signals whether the caller must immediately set or change the
// password before doing anything else.
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	Status      domain.LoginStatus `json:"status"`
	User        UserSummary        `json:"user"`
}

// ChangePasswordRequest carries the current and replacement credentials.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required"`
}

// CreateUserRequest defines the admin account-provisioning payload.
type CreateUserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// UnblockResponse carries the one-time generated password produced by an
// administrator unblock. It is shown exactly once and never stored.
type UnblockResponse struct {
	User              UserSummary `json:"user"`
	GeneratedPassword string      `json:"generated_password"`
}

// AuditEntryView is the API shape of one audit log line.
type AuditEntryView struct {
	UserID int64  `json:"user_id"`
	Action string `json:"action"`
	DoneAt int64  `json:"done_at"`
}

func newAuditEntryViews(entries []domain.AuditEntry) []AuditEntryView {
	out := make([]AuditEntryView, len(entries))
	for i, entry := range entries {
		out[i] = AuditEntryView{
			UserID: entry.UserID,
			Action: string(entry.Action),
			DoneAt: entry.At,
		}
	}
	return out
}

// PolicyViolationResponse details a rejected password.
type PolicyViolationResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	MinLength int    `json:"min_length,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}
