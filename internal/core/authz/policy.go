// Package authz decides who may act on which user resource. Decisions are
// pure: they depend only on the principal, the operation and the owner of
// the target resource.
package authz

import "github.com/simpleusers/users-service/internal/core/domain"

// Operation names an action on the user resource.
type Operation uint8

const (
	OpListUsers Operation = iota + 1
	OpGetUser
	OpCreateUser
	OpUpdateUser
	OpDeleteUser
	OpAddAddress
	OpRemoveAddress
)

func (op Operation) String() string {
	switch op {
	case OpListUsers:
		return "list_users"
	case OpGetUser:
		return "get_user"
	case OpCreateUser:
		return "create_user"
	case OpUpdateUser:
		return "update_user"
	case OpDeleteUser:
		return "delete_user"
	case OpAddAddress:
		return "add_address"
	case OpRemoveAddress:
		return "remove_address"
	default:
		return "unknown"
	}
}

// bypass describes which roles may act regardless of ownership.
type bypass uint8

const (
	bypassNone bypass = iota
	bypassStaff       // Admin or Moderator
	bypassAdmin       // Admin only
)

type rule struct {
	anonymous bool // no principal required
	owner     bool // the owner of the target may act
	bypass    bypass
}

func ruleFor(op Operation) (rule, bool) {
	switch op {
	case OpListUsers, OpGetUser:
		return rule{bypass: bypassStaff}, true
	case OpCreateUser:
		return rule{anonymous: true}, true
	case OpUpdateUser, OpAddAddress, OpRemoveAddress:
		return rule{owner: true, bypass: bypassStaff}, true
	case OpDeleteUser:
		return rule{owner: true, bypass: bypassAdmin}, true
	default:
		return rule{}, false
	}
}

// Authorize returns nil when principal may perform op on a resource owned
// by ownerID. A nil principal is an anonymous caller. Operations that need
// an identity fail with domain.ErrUnauthorized when principal is nil; all
// other denials are domain.ErrForbidden. Unknown operations are denied.
func Authorize(principal *domain.Principal, op Operation, ownerID int64) error {
	r, ok := ruleFor(op)
	if !ok {
		return domain.ErrForbidden
	}
	if r.anonymous {
		return nil
	}
	if principal == nil {
		return domain.ErrUnauthorized
	}
	if r.owner && principal.UserID == ownerID {
		return nil
	}
	if bypasses(principal.Role, r.bypass) {
		return nil
	}
	return domain.ErrForbidden
}

func bypasses(role domain.Role, b bypass) bool {
	switch role {
	case domain.RoleAdmin:
		return b == bypassStaff || b == bypassAdmin
	case domain.RoleModerator:
		return b == bypassStaff
	case domain.RoleUser:
		return false
	default:
		return false
	}
}
