package model

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the engine wraps exactly one of
// these, so callers can branch on errors.Is without matching message strings.
var (
	// ErrValidation marks errors caused by invalid caller input.
	ErrValidation = errors.New("validation failed")
	// ErrIntegrity marks errors caused by inconsistent internal state.
	ErrIntegrity = errors.New("integrity violation")
	// ErrNotFound marks lookups for ids that do not exist.
	ErrNotFound = errors.New("not found")
)

// Specific errors, each wrapping its category.
var (
	ErrInvalidK          = fmt.Errorf("%w: k must be positive", ErrValidation)
	ErrInvalidDepth      = fmt.Errorf("%w: depth must not be negative", ErrValidation)
	ErrInvalidLambda     = fmt.Errorf("%w: lambda must be within [0, 1]", ErrValidation)
	ErrDuplicateID       = fmt.Errorf("%w: duplicate node id", ErrValidation)
	ErrDimensionMismatch = fmt.Errorf("%w: embedding dimension mismatch", ErrValidation)
	ErrMissingNode       = fmt.Errorf("%w: link references missing node", ErrIntegrity)
)
