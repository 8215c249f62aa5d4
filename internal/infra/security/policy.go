package security

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// SpecialCharacters is the set a password must draw from to satisfy the
// special-and-digit requirement.
const SpecialCharacters = "!?@#$%^&*"

// Violation codes surfaced by the password policy.
const (
	ViolationTooShort              = "too_short"
	ViolationMixedCaseRequired     = "mixed_case_required"
	ViolationSpecialAndDigitNeeded = "special_and_digit_required"
)

// PolicyViolation represents a single password policy violation.
type PolicyViolation struct {
	Code      string
	Message   string
	MinLength int
}

// Error implements error for PolicyViolation.
func (e *PolicyViolation) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PasswordRule validates a password according to a specific policy rule.
type PasswordRule interface {
	Validate(password string) error
}

// PasswordRuleFunc adapts a function to be used as a PasswordRule.
type PasswordRuleFunc func(password string) error

// Validate executes the underlying rule function.
func (f PasswordRuleFunc) Validate(password string) error {
	return f(password)
}

// MinLengthRule ensures the password has at least min characters.
func MinLengthRule(min int) PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		if len([]rune(password)) < min {
			return &PolicyViolation{
				Code:      ViolationTooShort,
				Message:   fmt.Sprintf("password must be at least %d characters long", min),
				MinLength: min,
			}
		}
		return nil
	})
}

// MixedCaseRule ensures the password contains at least one uppercase and one
// lowercase letter.
func MixedCaseRule() PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		var hasUpper, hasLower bool
		for _, r := range password {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			}
		}
		if hasUpper && hasLower {
			return nil
		}
		return &PolicyViolation{
			Code:    ViolationMixedCaseRequired,
			Message: "password must contain at least one uppercase and one lowercase letter",
		}
	})
}

// SpecialAndDigitRule ensures the password contains at least one digit and
// one character from SpecialCharacters.
func SpecialAndDigitRule() PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		var hasDigit, hasSpecial bool
		for _, r := range password {
			switch {
			case unicode.IsDigit(r):
				hasDigit = true
			case strings.ContainsRune(SpecialCharacters, r):
				hasSpecial = true
			}
		}
		if hasDigit && hasSpecial {
			return nil
		}
		return &PolicyViolation{
			Code:    ViolationSpecialAndDigitNeeded,
			Message: "password must contain at least one digit and one special character",
		}
	})
}

// PolicyValidator checks candidate passwords against the runtime
// configuration. Rules run in a fixed order and the first violation wins:
// a password failing both the length and case checks always reports
// too_short.
type PolicyValidator struct{}

// NewPolicyValidator constructs the validator.
func NewPolicyValidator() *PolicyValidator {
	return &PolicyValidator{}
}

// Validate returns nil or the first *PolicyViolation encountered.
func (v *PolicyValidator) Validate(password string, cfg domain.ServerConfiguration) error {
	rules := []PasswordRule{MinLengthRule(cfg.PasswordMinLength)}
	if cfg.PasswordRequireMixedCase {
		rules = append(rules, MixedCaseRule())
	}
	if cfg.PasswordRequireSpecialAndDigit {
		rules = append(rules, SpecialAndDigitRule())
	}

	for _, rule := range rules {
		if err := rule.Validate(password); err != nil {
			return err
		}
	}
	return nil
}
