package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

const (
	MsgNoActiveAccount  = "No active account found with the given credentials"
	MsgPasswordMismatch = "Password fields didn't match."
	MsgEmailTaken       = "user with this email already exists."
)
