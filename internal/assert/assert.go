// Package assert implements the fail-fast precondition checks the core uses
// for programmer errors: invalid IDs, duplicate registrations, out-of-bounds
// obstacles, unknown factories. These are never expected to fire against a
// correct caller, so they panic rather than return an error.
package assert

import "fmt"

// That panics with msg if cond is false.
func That(cond bool, msg string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(msg, args...))
	}
}
