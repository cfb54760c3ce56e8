// Package system provides a real clock implementation.
package system

import "time"

// Clock implements logsink.Clock using the local wall clock. Log records are
// stamped in local time so operators can line them up with their own terminal.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current local time.
func (Clock) Now() time.Time {
	return time.Now().Local()
}
