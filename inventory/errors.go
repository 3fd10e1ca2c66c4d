package inventory

import "errors"

var (
	ErrCarNotFound        = errors.New("car not found")
	ErrImageNotFound      = errors.New("car image not found")
	ErrSellerNotFound     = errors.New("seller not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrNameRequired       = errors.New("name is required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCredentialsMissing = errors.New("username and password are required")
)
