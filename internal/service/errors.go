package service

import "errors"

var (
	ErrInvalidDraft = errors.New("reservation draft is incomplete or malformed")
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrNoToken      = errors.New("login response carried no token")
	ErrEmptyLogin   = errors.New("username and password are required")
)
