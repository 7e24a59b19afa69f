package models

import "errors"

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
	ErrMissingOdds  = errors.New("bet has no odds")
	ErrMissingLegs  = errors.New("parlay has no legs")
)
