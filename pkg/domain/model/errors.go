package model

import "github.com/m-mizutani/goerr/v2"

// Input validation errors
var (
	ErrMissingSelection = goerr.New("factor has no selection")
	ErrInvalidOption    = goerr.New("value is not an option of the factor")
	ErrInvalidWeight    = goerr.New("weight must be between 1 and 5")
	ErrZeroWeight       = goerr.New("weights of a factor group sum to zero")
)

// Context keys for error values
const (
	FactorIDKey = "factor_id"
	ValueKey    = "value"
	WeightKey   = "weight"
	GroupKey    = "group"
)
