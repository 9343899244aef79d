package service

import (
	"errors"

	"livestream_backend/internal/repository"
)

// Store-level errors surface unchanged; callers match with errors.Is.
var (
	ErrNotFound          = repository.ErrNotFound
	ErrInsufficientFunds = repository.ErrInsufficientFunds
	ErrAlreadyClaimed    = repository.ErrAlreadyClaimed

	ErrOwnershipMismatch = errors.New("resource does not belong to claimed owner")
	ErrNoOpenSession     = errors.New("no open session for stream")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrEmptyMessage      = errors.New("message text required")
)
