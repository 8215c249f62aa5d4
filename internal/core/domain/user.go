package domain

// Role identifies the access scope granted to a user account.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleResidential Role = "residential"
	RoleCommercial  Role = "commercial"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleResidential, RoleCommercial:
		return true
	}
	return false
}

// User mirrors the persisted representation of an account.
//
// An empty PasswordHash means the password has never been set: the account
// can complete a first login with an empty password and must then define one.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	PasswordHash   string `json:"password_hash"`
	Blocked        bool   `json:"blocked"`
	FailedAttempts int    `json:"failed_attempts"`
}

// Identity is the already-authenticated caller identity carried by session
// tokens. The core trusts it verbatim and only compares roles.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Identity projects the token-facing view of the account.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Role: u.Role}
}
