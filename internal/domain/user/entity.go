package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid user role")

// User is a read-only snapshot from the user directory.
type User struct {
	id   uuid.UUID
	role Role
}

func NewUser(id uuid.UUID, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &User{id: id, role: role}, nil
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Role() Role    { return u.role }

func (u *User) IsAdmin() bool {
	return u.role == RoleAdmin
}
