package utils

import "fmt"

// RecoverWithError turns a panic of the deferring function into *err. Panics carrying an
// error stay unwrappable.
func RecoverWithError(err *error) {
	rv := recover()
	if rv == nil {
		return
	}
	if rvErr, ok := rv.(error); ok {
		*err = fmt.Errorf("got panic: %w", rvErr)
		return
	}
	*err = fmt.Errorf("got panic: %v", rv)
}
