package model

import "errors"

// ErrWatchStopped is returned by a store watch once it was stopped or its
// context ended. It marks a normal end of stream, not a failure.
var ErrWatchStopped = errors.New("watch stopped")
