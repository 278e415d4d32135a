package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidHealth    = errors.New("initial health must be positive")
	ErrAlreadyDestroyed = errors.New("already destroyed")
	ErrFullHealth       = errors.New("already at full health")
)
