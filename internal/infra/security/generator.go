package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

const (
	lowercaseCharacters = "abcdefghijklmnopqrstuvwxyz"
	uppercaseCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitCharacters     = "0123456789"

	// maxGenerateAttempts bounds the strict regeneration loop. With every
	// enabled class present in the charset the loop converges almost
	// immediately; the bound only guards against a misconfigured policy.
	maxGenerateAttempts = 100
)

// PasswordIssuer produces random passwords for administrator-initiated
// unlocks. The issued password has length PasswordMinLength, draws on the
// character classes the policy flags enable, and is regenerated until it
// passes the very policy it was generated under.
type PasswordIssuer struct {
	validator *PolicyValidator
}

// NewPasswordIssuer constructs an issuer checking candidates against the
// provided validator.
func NewPasswordIssuer(validator *PolicyValidator) *PasswordIssuer {
	if validator == nil {
		validator = NewPolicyValidator()
	}
	return &PasswordIssuer{validator: validator}
}

// Generate returns a plaintext password satisfying cfg.
func (g *PasswordIssuer) Generate(cfg domain.ServerConfiguration) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}

	charset := lowercaseCharacters
	if cfg.PasswordRequireMixedCase {
		charset += uppercaseCharacters
	}
	if cfg.PasswordRequireSpecialAndDigit {
		charset += digitCharacters + SpecialCharacters
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		candidate, err := randomString(cfg.PasswordMinLength, charset)
		if err != nil {
			return "", err
		}
		if g.validator.Validate(candidate, cfg) == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("generate password: no policy-compliant candidate after %d attempts", maxGenerateAttempts)
}

func randomString(length int, charset string) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
