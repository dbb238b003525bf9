package proximity

import "errors"

var (
	ErrInvalidCommRange = errors.New("communication range must be a positive number")
	ErrNonMonotonicTime = errors.New("tick time is earlier than the previous tick")
	ErrInvalidTime      = errors.New("tick time must be a finite non-negative number")
	ErrTrackerFinalized = errors.New("tracker has already been finalized")
)
