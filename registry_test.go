package parseset

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stk builds a stroke from flat x, y coordinate pairs.
func stk(coords ...float64) Stroke {
	if len(coords)%2 != 0 {
		panic("stk: odd coordinate count")
	}
	s := make(Stroke, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		s = append(s, Pt(coords[i], coords[i+1]))
	}
	return s
}

// Fixture strokes, already canonical: oriented start-before-end and
// ordered top-to-bottom by start point.
var (
	strokeX = stk(0, 0, 1, 0)
	strokeY = stk(0, 1, 1, 1)
	strokeZ = stk(0, 2, 1, 2)
)

func TestRegistryExampleScenario(t *testing.T) {
	reg := NewRegistry()

	parseA := Parse{strokeX, strokeY}
	parseB := Parse{strokeY, strokeZ}

	if err := reg.Add(parseA); err != nil {
		t.Fatalf("Add(parseA) = %v", err)
	}
	if err := reg.Add(parseB); err != nil {
		t.Fatalf("Add(parseB) = %v", err)
	}
	if err := reg.Add(parseA); err != nil {
		t.Fatalf("Add(parseA again) = %v", err)
	}

	if got := reg.ParseCount(); got != 2 {
		t.Errorf("ParseCount() = %d, want 2", got)
	}
	if got := reg.StrokeCount(); got != 3 {
		t.Errorf("StrokeCount() = %d, want 3", got)
	}

	if err := reg.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	got, err := reg.Get()
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	want := [][]Stroke{
		{strokeX, strokeY},
		{strokeY, strokeZ},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	// The shared stroke must resolve to the same library entry in both
	// parses, not merely an equal value.
	if &got[0][1][0] != &got[1][0][0] {
		t.Error("shared stroke is not backed by the same library entry")
	}
}

func TestRegistryIdempotentInsertion(t *testing.T) {
	tests := []struct {
		name   string
		second Parse
	}{
		{"identical parse", Parse{strokeX, strokeY}},
		{"strokes in swapped order", Parse{strokeY, strokeX}},
		{"stroke traced backwards", Parse{strokeX.Reverse(), strokeY}},
		{"swapped and reversed", Parse{strokeY.Reverse(), strokeX.Reverse()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			if err := reg.Add(Parse{strokeX, strokeY}); err != nil {
				t.Fatalf("Add() = %v", err)
			}
			parses, strokes := reg.ParseCount(), reg.StrokeCount()

			if err := reg.Add(tt.second); err != nil {
				t.Fatalf("Add(second) = %v", err)
			}
			if got := reg.ParseCount(); got != parses {
				t.Errorf("ParseCount() = %d after duplicate, want %d", got, parses)
			}
			if got := reg.StrokeCount(); got != strokes {
				t.Errorf("StrokeCount() = %d after duplicate, want %d", got, strokes)
			}
		})
	}
}

func TestRegistryStrokeSharing(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Add(Parse{strokeX, strokeY}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if got := reg.StrokeCount(); got != 2 {
		t.Fatalf("StrokeCount() = %d, want 2", got)
	}

	// strokeY is already registered; only strokeZ is new.
	if err := reg.Add(Parse{strokeY, strokeZ}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if got := reg.StrokeCount(); got != 3 {
		t.Errorf("StrokeCount() = %d, want 3 (one new stroke)", got)
	}
}

func TestRegistryIndexStability(t *testing.T) {
	reg := NewRegistry()

	// strokeY enters the library at index 1 via parse A and must keep
	// that index when referenced by later parses.
	if err := reg.Add(Parse{strokeX, strokeY}, Parse{strokeY, strokeZ}, Parse{strokeY}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if err := reg.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	vecs := make([][]int, reg.ParseCount())
	for i := range vecs {
		vec, err := reg.IndexVector(i)
		if err != nil {
			t.Fatalf("IndexVector(%d) = %v", i, err)
		}
		vecs[i] = vec
	}

	want := [][]int{{0, 1}, {1, 2}, {1}}
	if diff := cmp.Diff(want, vecs); diff != "" {
		t.Errorf("index vectors mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	t.Run("Add after Finish fails", func(t *testing.T) {
		reg := NewRegistry()
		if err := reg.Finish(); err != nil {
			t.Fatalf("Finish() = %v", err)
		}
		err := reg.Add(Parse{strokeX})
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("Add() after Finish = %v, want ErrInvalidState", err)
		}
	})

	t.Run("Get before Finish fails", func(t *testing.T) {
		reg := NewRegistry()
		if _, err := reg.Get(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Get() before Finish = %v, want ErrInvalidState", err)
		}
	})

	t.Run("IndexVector before Finish fails", func(t *testing.T) {
		reg := NewRegistry()
		if _, err := reg.IndexVector(0); !errors.Is(err, ErrInvalidState) {
			t.Errorf("IndexVector() before Finish = %v, want ErrInvalidState", err)
		}
	})

	t.Run("second Finish fails", func(t *testing.T) {
		reg := NewRegistry()
		if err := reg.Finish(); err != nil {
			t.Fatalf("first Finish() = %v", err)
		}
		if err := reg.Finish(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("second Finish() = %v, want ErrInvalidState", err)
		}
	})

	t.Run("Frozen reporting", func(t *testing.T) {
		reg := NewRegistry()
		if reg.Frozen() {
			t.Error("Frozen() = true before Finish")
		}
		if err := reg.Finish(); err != nil {
			t.Fatalf("Finish() = %v", err)
		}
		if !reg.Frozen() {
			t.Error("Frozen() = false after Finish")
		}
	})
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry() // identity transform by default

	inputs := []Parse{
		{strokeX, strokeY},
		{strokeY, strokeZ},
		{strokeZ.Reverse(), strokeX},
	}
	for _, p := range inputs {
		if err := reg.Add(p); err != nil {
			t.Fatalf("Add() = %v", err)
		}
	}
	if err := reg.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	got, err := reg.Get()
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	for i, p := range inputs {
		want := FlattenStrokes(CanonicalParse(p))
		if diff := cmp.Diff(want, got[i]); diff != "" {
			t.Errorf("parse %d round trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRegistryTransformAppliedAtFinish(t *testing.T) {
	reg := NewRegistryWithConfig(Config{
		Transform: SpaceTransform(Translate(10, -5)),
	})

	if err := reg.Add(Parse{strokeX, strokeY}); err != nil {
		t.Fatalf("Add() = %v", err)
	}

	// Pre-finish, the library holds untransformed strokes.
	s, err := reg.LibraryStroke(0)
	if err != nil {
		t.Fatalf("LibraryStroke(0) = %v", err)
	}
	if !s.Equal(strokeX) {
		t.Errorf("LibraryStroke(0) = %v before Finish, want %v", s, strokeX)
	}

	if err := reg.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	// Count, order, and indices are unchanged; only contents moved.
	if got := reg.StrokeCount(); got != 2 {
		t.Errorf("StrokeCount() = %d after Finish, want 2", got)
	}
	got, err := reg.Get()
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	want := [][]Stroke{{
		stk(10, -5, 11, -5),
		stk(10, -4, 11, -4),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("transformed parses mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryBatchAdd(t *testing.T) {
	reg := NewRegistry()

	// Duplicates inside a single batch collapse the same way as
	// duplicates across calls.
	err := reg.Add(
		Parse{strokeX, strokeY},
		Parse{strokeY, strokeX}, // canonical duplicate of the first
		Parse{strokeZ},
	)
	if err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if got := reg.ParseCount(); got != 2 {
		t.Errorf("ParseCount() = %d, want 2", got)
	}
	if got := reg.StrokeCount(); got != 3 {
		t.Errorf("StrokeCount() = %d, want 3", got)
	}
}

func TestRegistryStrokeBoundariesMatter(t *testing.T) {
	reg := NewRegistry()

	// One two-point stroke versus two one-point strokes covering the
	// same points: different decompositions, no shared strokes.
	joined := Parse{stk(0, 0, 0, 1)}
	split := Parse{stk(0, 0), stk(0, 1)}

	if err := reg.Add(joined, split); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if got := reg.ParseCount(); got != 2 {
		t.Errorf("ParseCount() = %d, want 2", got)
	}
	if got := reg.StrokeCount(); got != 3 {
		t.Errorf("StrokeCount() = %d, want 3", got)
	}
}

func TestRegistryEmptyFinish(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}
	got, err := reg.Get()
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get() returned %d parses, want 0", len(got))
	}
}

func TestRegistryCorruptState(t *testing.T) {
	// A Flatten collaborator that changes its answer between Add and
	// Finish breaks the invariant that every referenced stroke was
	// registered. The registry must surface that as ErrCorruptState.
	alien := stk(99, 99)
	misbehave := false
	reg := NewRegistryWithConfig(Config{
		Canonicalize: func(p Parse) Parse { return p.Clone() },
		Flatten: func(p Parse) []Stroke {
			if misbehave {
				return []Stroke{alien}
			}
			return []Stroke(p)
		},
	})

	if err := reg.Add(Parse{strokeX}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	misbehave = true
	if err := reg.Finish(); !errors.Is(err, ErrCorruptState) {
		t.Errorf("Finish() with inconsistent flatten = %v, want ErrCorruptState", err)
	}
}

func TestRegistryAccessorBounds(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(Parse{strokeX}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if err := reg.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	if _, err := reg.LibraryStroke(-1); err == nil {
		t.Error("LibraryStroke(-1) = nil error, want out-of-range error")
	}
	if _, err := reg.LibraryStroke(1); err == nil {
		t.Error("LibraryStroke(1) = nil error, want out-of-range error")
	}
	if _, err := reg.IndexVector(5); err == nil {
		t.Error("IndexVector(5) = nil error, want out-of-range error")
	}
}

func TestRegistryCustomCanonicalizer(t *testing.T) {
	// With an identity canonicalizer, stroke order distinguishes
	// parses: the registry only ever compares stored canonical forms.
	reg := NewRegistryWithConfig(Config{
		Canonicalize: func(p Parse) Parse { return p.Clone() },
	})

	if err := reg.Add(Parse{strokeX, strokeY}, Parse{strokeY, strokeX}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if got := reg.ParseCount(); got != 2 {
		t.Errorf("ParseCount() = %d, want 2 (identity canonicalizer keeps both orders)", got)
	}
	// Strokes are still shared across the two parses.
	if got := reg.StrokeCount(); got != 2 {
		t.Errorf("StrokeCount() = %d, want 2", got)
	}
}
