package services

// Result carries a fetch's value together with the error that forced a
// fallback. Value is always usable; Err is nil on success.
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps a value fetched without error
func Success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fallback wraps the substitute value used because err occurred
func Fallback[T any](value T, err error) Result[T] {
	return Result[T]{Value: value, Err: err}
}

// IsFallback reports whether Value is a substitute rather than fetched data
func (r Result[T]) IsFallback() bool {
	return r.Err != nil
}
