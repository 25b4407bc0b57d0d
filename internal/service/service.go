// Package service provides business logic for the application.
package service

import (
	"errors"
	"time"
)

// Service errors.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
)

// Clock returns the current time. Tests replace it to pin "today".
type Clock func() time.Time
