package stats

import (
	"errors"
	"math"
	"testing"
)

func TestPearson_IdenticalSequencesIsOne(t *testing.T) {
	xs := []float64{8, 6, 9}
	ys := []float64{8, 6, 9}
	r, err := Pearson(xs, ys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r-1.0) > 1e-9 {
		t.Fatalf("expected r=1.0 got %v", r)
	}
}

func TestPearson_PerfectInverseIsMinusOne(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{8, 6, 4, 2}
	r, err := Pearson(xs, ys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r+1.0) > 1e-9 {
		t.Fatalf("expected r=-1.0 got %v", r)
	}
}

func TestPearson_KnownValue(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 5, 4, 5}
	r, err := Pearson(xs, ys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Hand-computed: cov=6, varX=10, varY=6 -> 6/sqrt(60)
	want := 6.0 / math.Sqrt(60.0)
	if math.Abs(r-want) > 1e-9 {
		t.Fatalf("expected r=%v got %v", want, r)
	}
}

func TestPearson_FewerThanTwoPairsUndefined(t *testing.T) {
	if _, err := Pearson([]float64{5}, []float64{7}); !errors.Is(err, ErrUndefinedCorrelation) {
		t.Fatalf("expected ErrUndefinedCorrelation, got %v", err)
	}
	if _, err := Pearson(nil, nil); !errors.Is(err, ErrUndefinedCorrelation) {
		t.Fatalf("expected ErrUndefinedCorrelation for empty input, got %v", err)
	}
}

func TestPearson_ZeroVarianceUndefined(t *testing.T) {
	if _, err := Pearson([]float64{7, 7, 7}, []float64{1, 5, 9}); !errors.Is(err, ErrUndefinedCorrelation) {
		t.Fatalf("expected ErrUndefinedCorrelation for constant xs, got %v", err)
	}
	if _, err := Pearson([]float64{1, 5, 9}, []float64{3, 3, 3}); !errors.Is(err, ErrUndefinedCorrelation) {
		t.Fatalf("expected ErrUndefinedCorrelation for constant ys, got %v", err)
	}
}

func TestPearson_LengthMismatchErrors(t *testing.T) {
	if _, err := Pearson([]float64{1, 2}, []float64{1, 2, 3}); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
}
