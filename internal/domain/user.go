package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = NewValidationError("id", "cannot be empty", nil)
	ErrEmptyUsername       = NewValidationError("username", "cannot be empty", nil)
	ErrInvalidUsername     = NewValidationError("username", "must be 3-32 letters, digits or underscores", nil)
	ErrEmptyEmail          = NewValidationError("email", "cannot be empty", nil)
	ErrInvalidEmail        = NewValidationError("email", "has invalid format", nil)
	ErrPasswordTooShort    = NewValidationError("password", "must be at least 8 characters long", nil)
	ErrPasswordTooLong     = NewValidationError("password", "must be at most 72 characters long", nil)
	ErrEmptyHashedPassword = NewValidationError("password", "hash cannot be empty", nil)
)

// Password length bounds. 72 is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// User is a registered account. Bookmarks holds weak references to cards:
// identifiers only, in insertion order, possibly pointing at cards that
// have since been deleted.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	Password       string // Plaintext, only set between signup and hashing
	HashedPassword string
	Bookmarks      []uuid.UUID
	CreatedAt      time.Time
	Version        int64
}

// NewUser creates a user with a fresh ID. The caller must hash Password
// and clear it before the user is stored.
func NewUser(username, email, password string, now time.Time) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     NormalizeEmail(email),
		Password:  password,
		Bookmarks: []uuid.UUID{},
		CreatedAt: now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail lower-cases and trims an email address so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}
	if !usernamePattern.MatchString(u.Username) {
		return ErrInvalidUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	// A plaintext password is only present during signup; stored users
	// must carry a hash instead.
	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	out := *u
	out.Bookmarks = append([]uuid.UUID{}, u.Bookmarks...)
	return &out
}
