package domain

// LoginStatus distinguishes the three authenticated-but-possibly-restricted
// outcomes of a successful credential check.
type LoginStatus string

const (
	// LoginAuthenticated is a plain successful login.
	LoginAuthenticated LoginStatus = "authenticated"
	// LoginMustSetPassword is returned when a provisioned account logs in
	// with its empty first-login password and must now define one.
	LoginMustSetPassword LoginStatus = "must_set_password"
	// LoginMustChangePassword is returned after an administrator unblock:
	// the generated password works exactly once before a change is required.
	LoginMustChangePassword LoginStatus = "must_change_password"
)

// LoginResult is the success payload of a login attempt.
type LoginResult struct {
	User   User
	Status LoginStatus
}

// UnblockResult carries the one-time plaintext password generated during an
// administrator unblock. The plaintext is never stored; once this value is
// discarded it cannot be recovered.
type UnblockResult struct {
	User     User
	Password string
}
