package must

// Must panics if err is non-nil and returns v otherwise. Intended for
// package-level initialisation of values that are known to be valid.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
