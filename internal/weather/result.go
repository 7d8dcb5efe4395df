package weather

// Result holds the outcome of one sub-fetch.
type Result[T any] struct {
	Value T
	Err   error
}

// Capture packs a (value, error) pair.
func Capture[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// OK reports whether the sub-fetch succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Optional returns a pointer to the value, or nil if the sub-fetch failed.
func (r Result[T]) Optional() *T {
	if r.Err != nil {
		return nil
	}
	v := r.Value
	return &v
}
