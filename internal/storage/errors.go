package storage

import "errors"

// ErrNotFound is returned when a referenced entity does not exist. Callers
// match it with errors.Is; the wrapping message names the entity and id.
var ErrNotFound = errors.New("not found")

// ErrAlreadyCompleted is returned when completing a session that already
// has an end time. End time and duration are stamped exactly once, and the
// completion side effects must not run a second time.
var ErrAlreadyCompleted = errors.New("session already completed")
