package orchestrator

import (
	"os"
	"time"
)

// Timeout constants for workflow execution
var (
	// DefaultWorkflowTimeout bounds a whole release run. The run is mostly
	// operator-paced, so the bound is generous.
	DefaultWorkflowTimeout = getTimeoutOrDefault("RELEASE_WORKFLOW_TIMEOUT", 4*time.Hour)
)

// getTimeoutOrDefault returns the env-configured timeout or the default
func getTimeoutOrDefault(envVar string, def time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	return def
}
