// Package user defines the session user entity. Authentication is a local
// mock: a session holds only a display name and an email address.
package user

import (
	"errors"
	"strings"
	"time"
)

// User represents the locally signed-in household member.
type User struct {
	name      string
	email     string
	createdAt time.Time
}

// NewUser creates a session user with validation.
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, errors.New("user name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, errors.New("invalid email address")
	}

	return &User{
		name:      name,
		email:     email,
		createdAt: time.Now(),
	}, nil
}

// Name returns the user's display name
func (u *User) Name() string {
	return u.name
}

// Email returns the user's email address
func (u *User) Email() string {
	return u.email
}

// CreatedAt returns when the session user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}
