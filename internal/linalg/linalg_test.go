package linalg

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func matVecNaive(dst []float32, m *Mat, x []float32) {
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		var sum float64
		for j := range row {
			sum += float64(row[j]) * float64(x[j])
		}
		dst[i] = float32(sum)
	}
}

func TestMatVecMatchesNaive(t *testing.T) {
	t.Parallel()

	m, err := NewMatFromData(3, 4, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 0, 1, 2,
	})
	if err != nil {
		t.Fatalf("new mat: %v", err)
	}
	v := []float32{1, 2, 3, 4}
	out := make([]float32, 3)
	if err := MatVec(out, m, v); err != nil {
		t.Fatalf("matvec: %v", err)
	}
	want := []float32{30, 70, 20}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d]: got %v want %v", i, out[i], want[i])
		}
	}
}

func TestMatVecRandomAgainstNaive(t *testing.T) {
	t.Parallel()

	r := NewRand(42)
	m := NewMat(16, 16)
	v := make([]float32, 16)
	if err := r.FillMat(m); err != nil {
		t.Fatalf("fill mat: %v", err)
	}
	if err := r.FillVec(v); err != nil {
		t.Fatalf("fill vec: %v", err)
	}
	// Keep magnitudes small so float32 accumulation order does not matter.
	for i := range m.Data {
		m.Data[i] = float32(math.Mod(float64(m.Data[i]), 4))
	}
	for i := range v {
		v[i] = float32(math.Mod(float64(v[i]), 4))
	}

	got := make([]float32, 16)
	want := make([]float32, 16)
	if err := MatVec(got, m, v); err != nil {
		t.Fatalf("matvec: %v", err)
	}
	matVecNaive(want, m, v)
	for i := range want {
		if d := math.Abs(float64(got[i] - want[i])); d > 1e-3*math.Abs(float64(want[i]))+1e-4 {
			t.Fatalf("out[%d]: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestMatVecDimensionErrors(t *testing.T) {
	t.Parallel()

	m := NewMat(2, 3)
	cases := []struct {
		name string
		out  []float32
		v    []float32
	}{
		{"short input", make([]float32, 2), make([]float32, 2)},
		{"long output", make([]float32, 3), make([]float32, 3)},
	}
	for _, tc := range cases {
		if err := MatVec(tc.out, m, tc.v); !errors.Is(err, ErrDimension) {
			t.Fatalf("%s: expected ErrDimension, got %v", tc.name, err)
		}
	}
	if err := MatVec(nil, m, make([]float32, 3)); !errors.Is(err, ErrNotAllocated) {
		t.Fatalf("nil output: expected ErrNotAllocated, got %v", err)
	}
}

func TestDistanceAndNorm(t *testing.T) {
	t.Parallel()

	d, err := Distance([]float32{1, 2, 3}, []float32{4, 6, 3})
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if d != 5 {
		t.Fatalf("distance: got %v want 5", d)
	}
	if n := Norm([]float32{3, 4}); n != 5 {
		t.Fatalf("norm: got %v want 5", n)
	}
	if _, err := Distance([]float32{1}, []float32{1, 2}); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
}

func TestDistanceDoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	a := []float32{1, 1}
	b := []float32{2, 2}
	if _, err := Distance(a, b); err != nil {
		t.Fatalf("distance: %v", err)
	}
	if a[0] != 1 || b[0] != 2 {
		t.Fatalf("inputs modified: a=%v b=%v", a, b)
	}
}

func TestRandIsReproducibleAndNonNegative(t *testing.T) {
	t.Parallel()

	a := NewMat(4, 5)
	b := NewMat(4, 5)
	if err := NewRand(99).FillMat(a); err != nil {
		t.Fatalf("fill a: %v", err)
	}
	if err := NewRand(99).FillMat(b); err != nil {
		t.Fatalf("fill b: %v", err)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("value %d differs for same seed: %v vs %v", i, a.Data[i], b.Data[i])
		}
		if a.Data[i] < 0 || math.IsInf(float64(a.Data[i]), 0) || math.IsNaN(float64(a.Data[i])) {
			t.Fatalf("value %d out of range: %v", i, a.Data[i])
		}
	}
}

func TestRandRejectsUnallocated(t *testing.T) {
	t.Parallel()

	r := NewRand(1)
	if err := r.FillVec(nil); !errors.Is(err, ErrNotAllocated) {
		t.Fatalf("expected ErrNotAllocated, got %v", err)
	}
	if err := r.FillMat(nil); !errors.Is(err, ErrNotAllocated) {
		t.Fatalf("expected ErrNotAllocated, got %v", err)
	}
}

func TestFprint(t *testing.T) {
	t.Parallel()

	m, _ := NewMatFromData(2, 2, []float32{1, 2, 3, 4})
	var buf bytes.Buffer
	if err := m.Fprint(&buf); err != nil {
		t.Fatalf("fprint: %v", err)
	}
	want := "1.000000 2.000000\n3.000000 4.000000\n"
	if buf.String() != want {
		t.Fatalf("fprint: got %q want %q", buf.String(), want)
	}
}
