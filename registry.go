package parseset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates an operation attempted in the wrong
	// lifecycle phase: Add on a frozen registry, Get on an open one, or
	// a second Finish.
	ErrInvalidState = errors.New("parseset: operation not valid in current registry state")

	// ErrCorruptState indicates a broken internal invariant, such as a
	// retained parse referencing a stroke missing from the library.
	// It signals a bug (typically a non-deterministic collaborator),
	// not a caller error.
	ErrCorruptState = errors.New("parseset: registry invariant violated")
)

// Config supplies the collaborator functions a Registry needs. The zero
// value is usable: nil fields fall back to [CanonicalParse],
// [FlattenStrokes], and [IdentityTransform].
type Config struct {
	// Canonicalize normalizes candidate parses before dedup.
	Canonicalize CanonicalizeFunc

	// Flatten extracts the strokes of a canonical parse.
	Flatten FlattenFunc

	// Transform remaps each unique library stroke during Finish.
	Transform TransformFunc
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		Canonicalize: CanonicalParse,
		Flatten:      FlattenStrokes,
		Transform:    IdentityTransform,
	}
}

// phase is the registry lifecycle state.
type phase int

const (
	phaseOpen phase = iota
	phaseFrozen
)

func (p phase) String() string {
	if p == phaseFrozen {
		return "frozen"
	}
	return "open"
}

// Registry collects candidate parses, drops structural duplicates under
// the canonical form, and maintains a shared library of unique strokes.
// It is a two-phase object: while open it accepts parses via Add; after
// Finish it is frozen and serves index-backed views via Get.
//
// Registry is not safe for concurrent use. It assumes a single owner,
// matching the single-writer shape of the sampling pipeline that feeds
// it.
type Registry struct {
	cfg Config

	phase phase

	// parses holds retained parses in canonical form, first-seen order.
	parses []Parse

	// library holds unique strokes. A stroke's identity is its index,
	// assigned at first insertion and never reused or reordered.
	library []Stroke

	// vectors[i] maps each stroke of parses[i] to its library index.
	// Populated by Finish.
	vectors [][]int

	// Fingerprint buckets for duplicate checks. Values are indices
	// into parses / library; exact equality is verified per candidate.
	parseSeen  map[uint64][]int
	strokeSeen map[uint64][]int
}

// NewRegistry creates an empty, open registry with [DefaultConfig].
func NewRegistry() *Registry {
	return NewRegistryWithConfig(DefaultConfig())
}

// NewRegistryWithConfig creates an empty, open registry with the given
// collaborators. Nil fields fall back to the package defaults.
func NewRegistryWithConfig(cfg Config) *Registry {
	if cfg.Canonicalize == nil {
		cfg.Canonicalize = CanonicalParse
	}
	if cfg.Flatten == nil {
		cfg.Flatten = FlattenStrokes
	}
	if cfg.Transform == nil {
		cfg.Transform = IdentityTransform
	}
	return &Registry{
		cfg:        cfg,
		parseSeen:  make(map[uint64][]int),
		strokeSeen: make(map[uint64][]int),
	}
}

// require centralizes the lifecycle check: every public operation
// declares the phase it is valid in.
func (r *Registry) require(want phase, op string) error {
	if r.phase != want {
		return fmt.Errorf("parseset: %s on %s registry: %w", op, r.phase, ErrInvalidState)
	}
	return nil
}

// Add canonicalizes each candidate parse and retains it unless a
// structurally equal parse is already present. Retaining a parse
// registers its constituent strokes into the shared library, skipping
// strokes the library already holds. Duplicates are a normal outcome,
// not an error.
//
// Add fails with [ErrInvalidState] once the registry is frozen.
func (r *Registry) Add(candidates ...Parse) error {
	if err := r.require(phaseOpen, "Add"); err != nil {
		return err
	}
	for _, p := range candidates {
		r.add(p)
	}
	return nil
}

func (r *Registry) add(p Parse) {
	cp := r.cfg.Canonicalize(p)

	h := hashParse(cp)
	for _, i := range r.parseSeen[h] {
		if r.parses[i].Equal(cp) {
			Logger().Debug("parseset: duplicate parse dropped",
				"existing", i, "strokes", cp.StrokeCount())
			return
		}
	}

	r.parseSeen[h] = append(r.parseSeen[h], len(r.parses))
	r.parses = append(r.parses, cp)

	for _, s := range r.cfg.Flatten(cp) {
		r.internStroke(s)
	}
}

// internStroke returns the library index of s, inserting it at the next
// free index if no structurally equal stroke exists yet.
func (r *Registry) internStroke(s Stroke) int {
	h := hashStroke(s)
	for _, i := range r.strokeSeen[h] {
		if r.library[i].Equal(s) {
			return i
		}
	}
	idx := len(r.library)
	r.strokeSeen[h] = append(r.strokeSeen[h], idx)
	r.library = append(r.library, s)
	return idx
}

// lookupStroke resolves s to its library index by exact structural
// match, without inserting.
func (r *Registry) lookupStroke(s Stroke) (int, bool) {
	for _, i := range r.strokeSeen[hashStroke(s)] {
		if r.library[i].Equal(s) {
			return i, true
		}
	}
	return 0, false
}

// Finish freezes the registry: it computes the index vector of every
// retained parse and then applies the configured coordinate transform
// to each library stroke in place. The library's count, order, and
// indices are unchanged by the transform.
//
// Finish may be called once. A second call fails with
// [ErrInvalidState]. A stroke that cannot be resolved against the
// library fails with [ErrCorruptState]; that is unreachable unless a
// collaborator misbehaves.
func (r *Registry) Finish() error {
	if err := r.require(phaseOpen, "Finish"); err != nil {
		return err
	}
	r.phase = phaseFrozen

	r.vectors = make([][]int, len(r.parses))
	for pi, cp := range r.parses {
		strokes := r.cfg.Flatten(cp)
		vec := make([]int, len(strokes))
		for si, s := range strokes {
			idx, ok := r.lookupStroke(s)
			if !ok {
				return fmt.Errorf("parseset: parse %d stroke %d not in library: %w",
					pi, si, ErrCorruptState)
			}
			vec[si] = idx
		}
		r.vectors[pi] = vec
	}

	for i, s := range r.library {
		r.library[i] = r.cfg.Transform(s)
	}

	// The fingerprint buckets only serve insertion and freeze-time
	// resolution; they are stale after the transform anyway.
	r.parseSeen = nil
	r.strokeSeen = nil

	Logger().Info("parseset: registry frozen",
		"parses", len(r.parses), "strokes", len(r.library))
	return nil
}

// Get returns one entry per retained parse, in retention order. Entry i
// is built by looking up each index of parse i's index vector against
// the stroke library at call time, so shared strokes resolve to the
// same (transformed) library value.
//
// Get fails with [ErrInvalidState] while the registry is still open,
// since index vectors exist only after Finish.
func (r *Registry) Get() ([][]Stroke, error) {
	if err := r.require(phaseFrozen, "Get"); err != nil {
		return nil, err
	}
	out := make([][]Stroke, len(r.vectors))
	for i, vec := range r.vectors {
		strokes := make([]Stroke, len(vec))
		for j, k := range vec {
			strokes[j] = r.library[k]
		}
		out[i] = strokes
	}
	return out, nil
}

// ParseCount returns the number of retained parses. Valid in either
// lifecycle state.
func (r *Registry) ParseCount() int {
	return len(r.parses)
}

// StrokeCount returns the number of unique strokes in the library.
// Valid in either lifecycle state.
func (r *Registry) StrokeCount() int {
	return len(r.library)
}

// Frozen reports whether Finish has been called.
func (r *Registry) Frozen() bool {
	return r.phase == phaseFrozen
}

// IndexVector returns the library index vector of retained parse i.
// The returned slice is a copy. It fails with [ErrInvalidState] while
// the registry is open.
func (r *Registry) IndexVector(i int) ([]int, error) {
	if err := r.require(phaseFrozen, "IndexVector"); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(r.vectors) {
		return nil, fmt.Errorf("parseset: parse index %d out of range [0,%d)", i, len(r.vectors))
	}
	vec := make([]int, len(r.vectors[i]))
	copy(vec, r.vectors[i])
	return vec, nil
}

// LibraryStroke returns the library stroke at index i. Valid in either
// lifecycle state; before Finish the stroke is untransformed.
func (r *Registry) LibraryStroke(i int) (Stroke, error) {
	if i < 0 || i >= len(r.library) {
		return nil, fmt.Errorf("parseset: stroke index %d out of range [0,%d)", i, len(r.library))
	}
	return r.library[i], nil
}
