package parseset

import "slices"

// CanonicalizeFunc normalizes a parse so that structurally-equivalent
// parses produced by different sampler traversals compare equal. The
// registry applies it once, at insertion time, and stores only the
// canonical form. Implementations must be deterministic and must not
// mutate their argument.
type CanonicalizeFunc func(Parse) Parse

// FlattenFunc extracts the constituent strokes of a canonical parse in
// a stable order. Implementations must be deterministic.
type FlattenFunc func(Parse) []Stroke

// TransformFunc remaps a single stroke into another coordinate space.
// The registry applies it once per unique library stroke during Finish.
type TransformFunc func(Stroke) Stroke

// CanonicalParse is the default canonicalizer. It normalizes the two
// degrees of freedom a skeleton walk leaves open:
//
//   - each stroke is oriented so that its start point orders before its
//     end point under [Point.Compare] (top-to-bottom, then
//     left-to-right); strokes traced the other way are reversed
//   - strokes are stable-sorted by [Stroke.Compare]
//
// Two independent walks over the same decomposition therefore
// canonicalize to structurally equal parses. The input is never
// mutated; the result is a fresh copy.
func CanonicalParse(p Parse) Parse {
	out := make(Parse, len(p))
	for i, s := range p {
		if s.Start().Compare(s.End()) > 0 {
			out[i] = s.Reverse()
		} else {
			out[i] = s.Clone()
		}
	}
	slices.SortStableFunc(out, Stroke.Compare)
	return out
}

// FlattenStrokes is the default flattener: the strokes of the parse in
// their stored order.
func FlattenStrokes(p Parse) []Stroke {
	return []Stroke(p)
}

// IdentityTransform is the default coordinate transform. It returns the
// stroke unchanged.
func IdentityTransform(s Stroke) Stroke {
	return s
}

// SpaceTransform builds a TransformFunc that applies the affine matrix
// m to every point of a stroke.
func SpaceTransform(m Matrix) TransformFunc {
	return func(s Stroke) Stroke {
		return s.Transform(m)
	}
}

// ImageToMotor returns the transform from image pixel coordinates
// (origin top-left, Y growing downward) to motor coordinates (origin
// bottom-left, Y growing upward) for an image of the given height.
func ImageToMotor(height int) TransformFunc {
	return SpaceTransform(Translate(0, float64(height)).Multiply(Scale(1, -1)))
}
