// Package timeouts provides the timeout values used with
// context.WithTimeout at the store and OAuth boundaries. Centralizing
// them keeps handler code consistent and easy to tune.
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping is for health checks and connectivity verification.
func Ping() time.Duration { return ping }

// Short is for single-document reads.
func Short() time.Duration { return short }

// Medium is for list queries and simple creates.
func Medium() time.Duration { return medium }

// Long is for operations touching multiple collections, such as signup
// creates and transactional profile updates, and for provider round trips.
func Long() time.Duration { return long }
