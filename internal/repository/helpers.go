package repository

import "time"

// nowUTC returns the current UTC time formatted as RFC3339 with nanoseconds,
// so consecutive writes sort in write order.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
