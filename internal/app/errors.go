package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidFact  = errors.New("invalid participation fact")
	ErrBackpressure = errors.New("ingestion backpressure")
)
