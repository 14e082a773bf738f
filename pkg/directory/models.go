package directory

import (
	"time"

	"github.com/google/uuid"
)

// Role values recognized by the admin console.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User is the directory view of an account: identity, contact and role.
// The impersonation subsystem reads these fields and never mutates them.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt time.Time  `json:"last_modified_at"`
	DeletedAt      *time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the privileged admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserParams holds the fields needed to create a user record.
type CreateUserParams struct {
	Email string
	Name  string
	Role  string
}

// UpdateUserParams holds the mutable fields of a user record.
type UpdateUserParams struct {
	ID   uuid.UUID
	Name string
	Role string
}
