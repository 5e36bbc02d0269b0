package service

import "errors"

var (
	// ErrProductNotFound means the purchase referenced an unknown product
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidAmount means the requested amount is not strictly positive
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrNoAccountAvailable means the gateway returned no merchant accounts
	// at all. Distinct from gateway unavailability: the provider answered,
	// there is just nothing to attribute a payin to.
	ErrNoAccountAvailable = errors.New("no merchant account available")
)
