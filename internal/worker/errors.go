package worker

import (
	"errors"
	"fmt"
)

// CannotStartWorkerError reports that the worker executable could not
// be located or spawned. It is fatal to the requested session creation
// but recoverable by the caller, for example by pointing at a different
// toolchain installation.
type CannotStartWorkerError struct {
	Name   string
	Reason string
}

func (e *CannotStartWorkerError) Error() string {
	return fmt.Sprintf("cannot start worker %q: %s", e.Name, e.Reason)
}

// IsCannotStartWorker reports whether err is a worker startup failure.
func IsCannotStartWorker(err error) bool {
	var e *CannotStartWorkerError
	return errors.As(err, &e)
}

// ErrWorkerCrashed reports that the worker process exited or its
// streams closed unexpectedly mid-request. The owning session must be
// discarded and recreated.
var ErrWorkerCrashed = errors.New("worker crashed")
