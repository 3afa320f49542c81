// Package xsafe provides panic-recovering goroutine launch helpers.
//
// Call guards the per-candidate highlight jobs run by internal/xsync, so
// that a single candidate's bad data cannot crash the process mid-request.
// Go is the goroutine-launching counterpart; the retrieval fan-out
// (errgroup) and the SSE flush loop start their goroutines directly.
package xsafe

import (
	"fmt"
	"runtime/debug"
	"time"
)

// PanicError wraps a recovered panic with its timestamp and stack trace.
type PanicError struct {
	Time  time.Time
	Info  any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered at %s: %v\n%s", e.Time.Format(time.RFC3339Nano), e.Info, e.Stack)
}

// Go launches fn in a new goroutine, recovering any panic and routing it to
// onPanic instead of crashing the process.
func Go(fn func(), onPanic func(error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := &PanicError{Time: time.Now(), Info: r, Stack: debug.Stack()}
				if onPanic != nil {
					onPanic(err)
				}
			}
		}()
		fn()
	}()
}

// Call runs fn synchronously, converting a panic into an error return
// instead of letting it propagate. Used to guard individual stage
// sub-tasks (e.g. one candidate's highlight generation) so that a panic in
// one unit of work doesn't take down the whole stage.
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Time: time.Now(), Info: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
