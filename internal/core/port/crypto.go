package port

import "github.com/hqportal/gatehouse/internal/core/domain"

// PasswordHasher hashes and verifies credentials. Hash embeds a fresh salt
// on every call and is therefore never deterministic. An empty encoded value
// is the "no password set" sentinel: Verify(p, "") holds only for empty p.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
}

// PasswordGenerator issues random passwords guaranteed to satisfy the
// policy they were generated under.
type PasswordGenerator interface {
	Generate(cfg domain.ServerConfiguration) (string, error)
}
