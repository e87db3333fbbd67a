package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 64
)

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleUser}

// Domain errors
var (
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrInvalidRole        = errors.New("role must be one of: admin, user")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrWrongPassword      = errors.New("incorrect password")
	ErrMissingParticipant = errors.New("user account must reference a participant CEF")
)

// Account holds state for one application login. User accounts link to
// exactly one participant via ParticipantCEF; admin accounts carry none.
type Account struct {
	ID             string
	Username       string
	PasswordHash   string
	Role           string
	ParticipantCEF string
	CreatedAt      time.Time
	FailedLogins   int
	LockedUntil    time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 64 characters")
	}
	if !isValidRole(a.Role) {
		return ErrInvalidRole
	}
	if a.Role == RoleUser && a.ParticipantCEF == "" {
		return ErrMissingParticipant
	}
	return nil
}

// SetPassword hashes and stores a user-chosen password using bcrypt with
// cost 12. The length floor applies only here: generated provisioning
// passwords go through SetProvisionedPassword.
// PRE: plaintext is non-empty and >= 8 characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < 8 {
		return ErrPasswordTooShort
	}
	return a.hashPassword(plaintext)
}

// SetProvisionedPassword stores a password produced by GeneratePassword. The
// derivation rule can yield fewer than 8 characters for short family names or
// digit-poor CEFs, so no length floor applies.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetProvisionedPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	return a.hashPassword(plaintext)
}

func (a *Account) hashPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account
// after 5 failures.
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		a.LockedUntil = time.Now().Add(15 * time.Minute)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// IsAdmin returns true if the account has admin role.
// INVARIANT: Account fields are not mutated
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// GeneratePassword derives the provisioning password of a participant
// account: the family name up to the first space, "@", then the first four
// numeric digits of the CEF. The same rule serves password reset, so a reset
// always reproduces the originally issued password.
// PRE: nom and cef come from the participant record
// POST: e.g. nom "Dupont Jean", cef "P123456" -> "Dupont@1234"
func GeneratePassword(nom, cef string) string {
	name := nom
	if i := strings.IndexByte(nom, ' '); i >= 0 {
		name = nom[:i]
	}

	var digits strings.Builder
	for _, r := range cef {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 4 {
				break
			}
		}
	}
	return name + "@" + digits.String()
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
