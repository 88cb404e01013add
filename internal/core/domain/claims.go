package domain

import "time"

// Claims is the identity embedded in a bearer token.
type Claims struct {
	UserID         string
	Email          string
	Role           Role
	MunicipalityID string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// HasRole reports whether the claims role is one of roles.
func (c Claims) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
