package model

import "fmt"

// Role selects which surface the local user is operating: a seat holder or
// the venue operator. It is a persisted preference, not an identity.
type Role string

const (
	RoleNone     Role = "none"
	RoleUser     Role = "user"
	RoleMerchant Role = "merchant"
)

// ParseRole validates s as a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleNone, RoleUser, RoleMerchant:
		return r, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

// DisplayName is the human label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleMerchant:
		return "Merchant"
	}
	return "None"
}
