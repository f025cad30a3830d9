// Package biztime centralizes time handling so every timestamp the system
// produces is UTC, regardless of server locale.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
