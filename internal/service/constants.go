package service

import "time"

// Timeout constants for service operations
const (
	// DefaultCommandTimeout bounds captured command executions. Publishing a
	// multiplatform library can legitimately take a long time.
	DefaultCommandTimeout = 60 * time.Minute
)
