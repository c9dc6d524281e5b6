// Package ptr has helpers for optional values.
package ptr

// Ref returns a pointer to a copy of v. Handy for literals such as ptr.Ref(60.0).
func Ref[T any](v T) *T {
	return &v
}

// Deref returns *p or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
