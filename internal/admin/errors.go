package admin

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrRoleRequired     = errors.New("role is required")
	ErrSelfAdminRemoval = errors.New("cannot remove own admin role")
)
