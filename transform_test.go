package lens

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertAffine(t *testing.T, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Fatalf("affine = %v, want %v", got, want)
		}
	}
}

func TestMultiplyIdentity(t *testing.T) {
	m := [6]float64{2, 0.5, -1, 3, 10, 20}
	assertAffine(t, multiplyAffine(identityTransform, m), m)
	assertAffine(t, multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAppliesChildFirst(t *testing.T) {
	// Scale then translate: (1,1) -> (2,2) -> (12,2).
	m := multiplyAffine(translateAffine(10, 0), scaleAffine(2, 2))
	x, y := transformPoint(m, 1, 1)
	if math.Abs(x-12) > epsilon || math.Abs(y-2) > epsilon {
		t.Errorf("point = (%v, %v), want (12, 2)", x, y)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	x, y := transformPoint(rotateAffine(math.Pi/2), 1, 0)
	if math.Abs(x) > epsilon || math.Abs(y-1) > epsilon {
		t.Errorf("point = (%v, %v), want (0, 1)", x, y)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := multiplyAffine(translateAffine(30, -4), multiplyAffine(rotateAffine(0.7), scaleAffine(1.5, 0.5)))
	assertAffine(t, multiplyAffine(m, invertAffine(m)), identityTransform)
	assertAffine(t, multiplyAffine(invertAffine(m), m), identityTransform)
}

func TestInvertSingularReturnsIdentity(t *testing.T) {
	assertAffine(t, invertAffine(scaleAffine(0, 1)), identityTransform)
}
