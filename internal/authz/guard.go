// Package authz centralizes the ownership checks the handlers and services
// rely on. Reads are open to any authenticated user; mutations require the
// caller to own the resource.
package authz

import (
	"fmt"

	"ripple/internal/models"
)

// Resource is anything with an owner that the guard can rule on.
type Resource interface {
	OwnerID() uint
	Kind() string
}

// CanRead reports whether the user may view the resource. Any authenticated
// user may read; user ID zero means no authenticated caller.
func CanRead(userID uint, _ Resource) error {
	if userID == 0 {
		return models.NewUnauthenticatedError("authentication required")
	}
	return nil
}

// CanMutate reports whether the user may perform the given action ("edit",
// "delete") on the resource. Only the owner may mutate; staff status grants
// no override.
func CanMutate(userID uint, res Resource, action string) error {
	if userID == 0 {
		return models.NewUnauthenticatedError("authentication required")
	}
	if res.OwnerID() != userID {
		return models.NewForbiddenError(denialMessage(action, res.Kind()))
	}
	return nil
}

// CanCreateTag reports whether the user may create tags directly. Tags that
// arrive attached to a post are exempt; only staff create them standalone.
func CanCreateTag(user *models.User) error {
	if user == nil || user.ID == 0 {
		return models.NewUnauthenticatedError("authentication required")
	}
	if !user.IsStaff {
		return models.NewForbiddenError("You do not have permission to create tags.")
	}
	return nil
}

func denialMessage(action, kind string) string {
	return fmt.Sprintf("You do not have permission to %s this %s.", action, kind)
}
