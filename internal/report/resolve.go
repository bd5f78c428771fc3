package report

// Optional-chain navigation used everywhere the assembler reads through a
// nullable relationship. A missing link anywhere in the chain degrades to the
// fallback instead of panicking, so one absent room or staff member never
// takes down a whole document.

// Nav follows one optional link, tolerating an absent start.
func Nav[A, B any](from *A, link func(*A) *B) *B {
	if from == nil {
		return nil
	}
	return link(from)
}

// Value reads a terminal attribute from an optional chain, returning fallback
// when the chain is broken.
func Value[A, T any](from *A, read func(*A) T, fallback T) T {
	if from == nil {
		return fallback
	}
	return read(from)
}

// Deref unwraps an optional scalar with a fallback for nil.
func Deref[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
