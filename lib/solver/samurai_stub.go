//go:build !cgo || !samurai

package solver

// Library returns ErrNoLibrary: this build has no solver binding.
func Library() (Driver, error) {
	return nil, ErrNoLibrary
}
