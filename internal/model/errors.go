package model

import "errors"

var (
	// User related errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")

	// Post related errors
	ErrPostNotFound = errors.New("post not found")
)
