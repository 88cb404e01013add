package domain

import "time"

// Role is the authorization role carried by a user and its tokens.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOperator Role = "operator"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOperator, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User models an account owned by the auth service.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone,omitempty"`
	Role           Role      `json:"role"`
	MunicipalityID string    `json:"municipality_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileUpdate carries the user fields that may be changed after registration.
// Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	MunicipalityID *string
}

// Empty reports whether the update sets no field.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil && u.MunicipalityID == nil
}
