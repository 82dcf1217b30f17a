// Package permission holds the capability and hierarchy checks every
// mutating or listing handler must pass before touching the store.
package permission

import (
	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/model"
)

// Check gates an action on a single capability flag of the actor's role.
func Check(flag bool) error {
	if !flag {
		return apperrors.ErrMissingPermission
	}
	return nil
}

// CanActOnUser applies the hierarchical guard for one user acting on
// another user record. A user may always act on their own record;
// otherwise the target must hold a strictly lower-privileged role
// (strictly greater level).
func CanActOnUser(actor, target *model.User) error {
	if actor.ID == target.ID {
		return nil
	}
	if target.Role.Level <= actor.Role.Level {
		return apperrors.ErrMissingPermission
	}
	return nil
}

// CanActOnRole applies the hierarchical guard for acting on a role record.
// The role must sit strictly below the actor's own.
func CanActOnRole(actor *model.User, role *model.Role) error {
	if role.Level <= actor.Role.Level {
		return apperrors.ErrMissingPermission
	}
	return nil
}

// CanAssignRole checks a role assignment or creation: the chosen role's
// level must be strictly greater than the actor's own. Identical to
// CanActOnRole but named for the write path that uses it.
func CanAssignRole(actor *model.User, role *model.Role) error {
	return CanActOnRole(actor, role)
}

// CanAssignLevel checks a new numeric level value for a role the actor is
// editing or creating.
func CanAssignLevel(actor *model.User, level int) error {
	if level <= actor.Role.Level {
		return apperrors.ErrMissingPermission
	}
	return nil
}
