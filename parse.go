package parseset

// Parse is one candidate decomposition of an image into strokes: an
// ordered sequence of strokes. Parses are compared structurally, stroke
// by stroke and point by point.
type Parse []Stroke

// Equal reports whether p and q have identical stroke sequences.
func (p Parse) Equal(q Parse) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !p[i].Equal(q[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the parse.
func (p Parse) Clone() Parse {
	out := make(Parse, len(p))
	for i, s := range p {
		out[i] = s.Clone()
	}
	return out
}

// Transform returns a copy of the parse with m applied to every point
// of every stroke.
func (p Parse) Transform(m Matrix) Parse {
	out := make(Parse, len(p))
	for i, s := range p {
		out[i] = s.Transform(m)
	}
	return out
}

// StrokeCount returns the number of strokes in the parse.
func (p Parse) StrokeCount() int {
	return len(p)
}

// PointCount returns the total number of points across all strokes.
func (p Parse) PointCount() int {
	var n int
	for _, s := range p {
		n += len(s)
	}
	return n
}

// Bounds returns the axis-aligned bounding box of all points in the
// parse. ok is false when the parse contains no points.
func (p Parse) Bounds() (min, max Point, ok bool) {
	for _, s := range p {
		for _, pt := range s {
			if !ok {
				min, max, ok = pt, pt, true
				continue
			}
			if pt.X < min.X {
				min.X = pt.X
			}
			if pt.Y < min.Y {
				min.Y = pt.Y
			}
			if pt.X > max.X {
				max.X = pt.X
			}
			if pt.Y > max.Y {
				max.Y = pt.Y
			}
		}
	}
	return min, max, ok
}
