package engine

import "errors"

var (
	// ErrInvalidDeal is returned by Deal when the input is not a full 52-card deck
	ErrInvalidDeal = errors.New("invalid deal")
	// ErrUnknownPile is returned when a pile kind or key cannot be resolved
	ErrUnknownPile = errors.New("unknown pile")
	// ErrInvalidConfig wraps every table configuration validation failure
	ErrInvalidConfig = errors.New("config validation")
)
