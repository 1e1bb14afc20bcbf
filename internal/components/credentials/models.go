package credentials

import "errors"

var (
	ErrEmptyCredentials   = errors.New("username and password cannot be empty")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type (
	User struct {
		Username     string `json:"username"`
		PasswordHash string `json:"-"` // Never serialize password hash
	}

	RegisterIn struct {
		Username        string
		Password        string
		PasswordConfirm string
	}
)
