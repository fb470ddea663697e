// Package parseset provides a deduplicating registry for stroke parses.
//
// # Overview
//
// A parse is an ordered sequence of strokes, and a stroke is an ordered
// polyline of 2D points. Stochastic samplers that walk an image skeleton
// produce many candidate parses, most of them structural duplicates of one
// another. parseset recognizes duplicates under a canonical form, keeps a
// single shared library of unique strokes, and expresses every retained
// parse as a vector of indices into that library.
//
// # Quick Start
//
//	import "github.com/motorlab/parseset"
//
//	reg := parseset.NewRegistry()
//
//	// Feed candidate parses; duplicates are silently dropped.
//	if err := reg.Add(candidates...); err != nil {
//		...
//	}
//
//	// Freeze the registry. This computes index vectors and applies the
//	// coordinate transform to the stroke library.
//	if err := reg.Finish(); err != nil {
//		...
//	}
//
//	parses, err := reg.Get()
//
// # Lifecycle
//
// A registry is open on construction and frozen after Finish. Add is legal
// only while open; Get only once frozen. Violations fail with
// [ErrInvalidState]. A registry instance assumes a single owner; callers
// with concurrent producers must serialize access themselves.
//
// # Collaborators
//
// Canonicalization, stroke extraction, and the coordinate-space transform
// are injected functions (see [Config]). The defaults normalize sampler
// traversal order ([CanonicalParse]) and leave coordinates untouched.
package parseset
