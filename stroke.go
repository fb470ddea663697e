package parseset

import "slices"

// Stroke is an ordered polyline of points traced by a single pen-down
// movement. A valid stroke has at least one point. Stroke values coming
// out of the sampler are compared exactly; there is no tolerance on
// coordinates, so two strokes are equal only if every point matches
// bit-for-bit.
type Stroke []Point

// Equal reports whether s and t have identical point sequences.
func (s Stroke) Equal(t Stroke) bool {
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		if s[i] != t[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the stroke.
func (s Stroke) Clone() Stroke {
	return slices.Clone(s)
}

// Reverse returns a copy of the stroke with its traversal direction
// flipped. The original is left untouched.
func (s Stroke) Reverse() Stroke {
	out := make(Stroke, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}

// Start returns the first point of the stroke.
func (s Stroke) Start() Point {
	return s[0]
}

// End returns the last point of the stroke.
func (s Stroke) End() Point {
	return s[len(s)-1]
}

// ArcLength returns the total polyline length of the stroke.
func (s Stroke) ArcLength() float64 {
	var total float64
	for i := 1; i < len(s); i++ {
		total += s[i-1].Distance(s[i])
	}
	return total
}

// Transform returns a copy of the stroke with m applied to every point.
func (s Stroke) Transform(m Matrix) Stroke {
	out := make(Stroke, len(s))
	for i, p := range s {
		out[i] = m.TransformPoint(p)
	}
	return out
}

// Compare orders strokes lexicographically by their point sequences
// using [Point.Compare], with shorter strokes ordering before longer
// ones when they share a prefix. It returns -1, 0, or +1.
func (s Stroke) Compare(t Stroke) int {
	n := min(len(s), len(t))
	for i := 0; i < n; i++ {
		if c := s[i].Compare(t[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(s) < len(t):
		return -1
	case len(s) > len(t):
		return 1
	}
	return 0
}
