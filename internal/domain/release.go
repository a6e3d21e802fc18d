package domain

import "errors"

// ErrCancelled is raised when the operator declines a confirmation gate.
// It terminates the run just like a fatal error but is reported as a
// cancellation rather than a failure.
var ErrCancelled = errors.New("operation cancelled by operator")

// IsCancelled reports whether err is (or wraps) an operator cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Release holds the metadata of the release being performed.

type Release struct {
	// CurrentVersion is the snapshot version read from the version file.
	CurrentVersion string
	// Version is the version being released.
	Version string
	// NextVersion is the development version applied after the release.
	NextVersion string
	// TagName is the annotated tag marking the release point.
	TagName string
}
