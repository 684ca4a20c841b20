package users

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLocked             = errors.New("account is locked")
	ErrInvalidInput       = errors.New("invalid input")
)
