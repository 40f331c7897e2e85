package models

// Value dereferences an optional field.
func Value[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// ValueOr dereferences an optional field, returning def when it is absent.
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Ptr returns a pointer to v. Handy for building datapoints in code.
func Ptr[T any](v T) *T {
	return &v
}
