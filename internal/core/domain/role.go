package domain

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of authorization levels. The numeric values are
// the seeded role ids and must not change.
type Role uint8

const (
	RoleUser      Role = 1
	RoleModerator Role = 2
	RoleAdmin     Role = 3
)

// DefaultRole is assigned to every newly registered user.
const DefaultRole = RoleUser

// Roles lists every role in id order.
func Roles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleModerator:
		return "Moderator"
	case RoleAdmin:
		return "Admin"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a role claim back into a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	switch s {
	case "User":
		return RoleUser, nil
	case "Moderator":
		return RoleModerator, nil
	case "Admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", uint8(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
