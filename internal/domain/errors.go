package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoActiveFlow = errors.New("no active flow")
)
