package assert

import "github.com/oomph-ac/motionsim/oerror"

// IsTrue panics with a formatted error if ok is false. It guards internal invariants only.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
