package scheduler

import "errors"

// ErrInfeasible indicates that a rotation cycle cannot be completed with the given workers,
// positions and date exceptions.
var ErrInfeasible = errors.New("timetable is infeasible")
