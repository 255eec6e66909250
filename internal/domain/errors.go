package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")

	// ErrInsufficientIngredients is an ErrInvalidArgument: the caller asked
	// to cook something the pantry cannot cover.
	ErrInsufficientIngredients = fmt.Errorf("%w: insufficient ingredients", ErrInvalidArgument)
)
