package domain

import "errors"

var (
	// ErrInvalidTimeRange is returned when a requested year precedes the base year.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidGrowthInput marks a growth rate that cannot be derived
	// (non-positive base price or an empty time span). It is reported per
	// scenario; other scenarios keep computing.
	ErrInvalidGrowthInput = errors.New("invalid growth input")

	// ErrInvalidHolding is returned for negative units, negative prices or
	// a held asset without a price.
	ErrInvalidHolding = errors.New("invalid holding")
)
