package impersonate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-admin/pkg/directory"
)

// UserDirectory is the read-only identity lookup the policy depends on.
// directory.Service satisfies it.
type UserDirectory interface {
	GetUser(ctx context.Context, userID uuid.UUID) (directory.User, error)
}

// Policy evaluates whether impersonation may proceed. It is stateless;
// every decision is derived from the two identities and the directory.
type Policy struct {
	directory UserDirectory
}

// NewPolicy creates a new safety policy
func NewPolicy(dir UserDirectory) *Policy {
	return &Policy{directory: dir}
}

// Check runs the safety checks in a fixed order, first failure wins:
//  1. an admin may not impersonate themselves (checked before any lookup)
//  2. the admin must exist and hold the admin role
//  3. the target must exist
//  4. the target must not hold the admin role
//
// On success it returns the resolved admin and target users so callers can
// build the target snapshot and notifications without further lookups.
func (p *Policy) Check(ctx context.Context, adminID, targetID uuid.UUID) (admin, target directory.User, err error) {
	if adminID == targetID {
		return directory.User{}, directory.User{}, forbiddenError("cannot impersonate yourself")
	}

	admin, err = p.directory.GetUser(ctx, adminID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return directory.User{}, directory.User{}, forbiddenError("admin user not found")
		}
		return directory.User{}, directory.User{}, internalError(err)
	}
	if !admin.IsAdmin() {
		return directory.User{}, directory.User{}, forbiddenError("only admins can impersonate")
	}

	target, err = p.directory.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return directory.User{}, directory.User{}, forbiddenError("target user not found")
		}
		return directory.User{}, directory.User{}, internalError(err)
	}
	if target.IsAdmin() {
		return directory.User{}, directory.User{}, forbiddenError("cannot impersonate admin users")
	}

	return admin, target, nil
}
