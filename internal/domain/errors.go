package domain

import "errors"

// ErrLengthMismatch is returned when a bivariate statistic receives series of
// differing lengths. Inputs are never silently truncated.
var ErrLengthMismatch = errors.New("series length mismatch")

// ErrInvalidWeightConfig is returned at construction time when a weight table
// does not sum to 1.
var ErrInvalidWeightConfig = errors.New("weights must sum to 1")
