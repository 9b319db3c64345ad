package authz

import "github.com/projectpulse/pulse-backend/internal/apperr"

type Role string
type Action string

const (
	// RoleAdmin is the elevated role.
	RoleAdmin Role = "admin"
	// RoleViewer is the read-only role.
	RoleViewer Role = "viewer"
)

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return action == ActionRead || action == ActionWrite
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// Require returns apperr.ErrForbidden when role may not perform action.
func Require(role Role, action Action) error {
	if !Can(role, action) {
		return apperr.ErrForbidden
	}
	return nil
}

func Valid(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleViewer:
		return true
	default:
		return false
	}
}
