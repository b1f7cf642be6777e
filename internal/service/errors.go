package service

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found or access denied")
	ErrMessageNotFound    = errors.New("message not found or access denied")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
