package domain

import "fmt"

// ServerConfiguration is the admin-mutable runtime policy. It is persisted
// alongside users and logs, and every lockout or password-policy decision
// reads it fresh so live updates take effect immediately.
type ServerConfiguration struct {
	MaxAuthAttempts                int  `json:"max_auth_attempts"`
	WaitWhenFailedMs               int  `json:"wait_when_failed_ms"`
	PasswordMinLength              int  `json:"password_min_length"`
	PasswordRequireMixedCase       bool `json:"password_require_mixed_case"`
	PasswordRequireSpecialAndDigit bool `json:"password_require_special_and_digit"`
}

// DefaultServerConfiguration returns the policy applied on first boot.
func DefaultServerConfiguration() ServerConfiguration {
	return ServerConfiguration{
		MaxAuthAttempts:                3,
		WaitWhenFailedMs:               5000,
		PasswordMinLength:              8,
		PasswordRequireMixedCase:       true,
		PasswordRequireSpecialAndDigit: true,
	}
}

// Validate rejects configurations that would disable authentication or the
// password policy outright. Applied at every boundary that accepts a
// configuration, so a request body can never install unusable thresholds.
func (c ServerConfiguration) Validate() error {
	if c.MaxAuthAttempts < 1 {
		return fmt.Errorf("max_auth_attempts must be at least 1, got %d", c.MaxAuthAttempts)
	}
	if c.WaitWhenFailedMs < 0 {
		return fmt.Errorf("wait_when_failed_ms must not be negative, got %d", c.WaitWhenFailedMs)
	}
	if c.PasswordMinLength < 1 {
		return fmt.Errorf("password_min_length must be at least 1, got %d", c.PasswordMinLength)
	}
	return nil
}
