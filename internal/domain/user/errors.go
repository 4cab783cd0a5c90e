package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrEmailTaken       = errors.New("email already registered")
	ErrFamilyRequired   = errors.New("family id or family code is required")
	ErrCannotDeactivate = errors.New("cannot deactivate own account")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
