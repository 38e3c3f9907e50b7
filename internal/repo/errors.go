package repo

import "errors"

var (
	// ErrProductNotFound is returned when no live product matches.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a category id does not resolve.
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrDuplicatedValueUnique is returned when a write violates a unique constraint.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	// ErrInvalidQuantityChange is returned when a stock adjustment would leave stock out of range.
	ErrInvalidQuantityChange = errors.New("stock change out of range")
)
