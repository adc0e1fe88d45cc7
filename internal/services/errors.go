package services

import "errors"

// Report service errors. Handlers map them with errors.Is.
var (
	// ErrNoDataFound means the dataset had no usable rows
	ErrNoDataFound = errors.New("no data found")

	// ErrCountryNotFound means the country has no rows in the dataset
	ErrCountryNotFound = errors.New("country not found")
)
