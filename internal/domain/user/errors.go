package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidIdentifier  = errors.New("invalid user identifier")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrNoUsers            = errors.New("no users found to export")
	ErrUnavailable        = errors.New("user store unavailable, retry later")

	ErrProfileTooLarge = errors.New("profile image must not exceed 5 MB")
	ErrProfileNotImage = errors.New("profile must be an image")
)
