// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/geocorr/internal/grid"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.Abs(got-want) > delta {
		t.Errorf("value = %g, want %g (±%g)", got, want, delta)
	}
}

// AssertFieldConstant checks that every node of a field equals want
// within delta.
func AssertFieldConstant(t *testing.T, f *grid.Field, want, delta float64) {
	t.Helper()
	h, w := f.Shape()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if math.Abs(f.At(r, c)-want) > delta {
				t.Fatalf("field[%d,%d] = %g, want %g (±%g)", r, c, f.At(r, c), want, delta)
			}
		}
	}
}

// ConstantField builds a field with every node set to v, failing the
// test on an invalid descriptor.
func ConstantField(t *testing.T, d grid.Desc, v float64) *grid.Field {
	t.Helper()
	f, err := grid.Constant(d, v)
	if err != nil {
		t.Fatalf("constant field on %+v: %v", d, err)
	}
	return f
}
