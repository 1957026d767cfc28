package incr

import "errors"

// ErrAlreadyStabilizing is returned by Stabilize if the graph
// is already stabilizing; stabilization is strictly serial.
var ErrAlreadyStabilizing = errors.New("stabilize; already stabilizing, cannot continue")

// ErrMaxHeightExceeded is surfaced when the depth of the graph
// exhausts the configured maximum node height: constructors panic with
// it, and Stabilize returns it if a bind rewiring runs out of heights.
var ErrMaxHeightExceeded = errors.New("max height exceeded")
