package clock

import "time"

// Clock supplies the current time. Production code uses System; tests
// substitute a synthetic implementation to drive cooldown and idle math.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}
