package parseset

import "math"

// Content fingerprints let the registry find duplicate candidates in a
// hash bucket instead of scanning every retained entry. A fingerprint
// match is never trusted on its own: the registry always verifies with
// an exact structural comparison, so collisions only cost an extra
// compare and the observable dedup behavior is identical to a linear
// scan.

// FNV-1a parameters, applied to 64-bit words rather than bytes.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func hashWord(h, w uint64) uint64 {
	h ^= w
	h *= fnvPrime64
	return h
}

func hashPoints(h uint64, pts []Point) uint64 {
	for _, p := range pts {
		h = hashWord(h, math.Float64bits(p.X))
		h = hashWord(h, math.Float64bits(p.Y))
	}
	return h
}

// hashStroke fingerprints a stroke's point sequence.
func hashStroke(s Stroke) uint64 {
	return hashPoints(fnvOffset64, s)
}

// hashParse fingerprints a parse. Stroke lengths are mixed in before
// each stroke so that parses differing only in stroke boundaries (for
// example [[a b]] versus [[a] [b]]) fingerprint differently.
func hashParse(p Parse) uint64 {
	h := uint64(fnvOffset64)
	for _, s := range p {
		h = hashWord(h, uint64(len(s)))
		h = hashPoints(h, s)
	}
	return h
}
