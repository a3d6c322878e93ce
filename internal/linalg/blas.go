package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

func general(m *Mat) blas32.General {
	return blas32.General{
		Rows:   m.Rows,
		Cols:   m.Cols,
		Stride: m.Stride,
		Data:   m.Data,
	}
}

func vector(v []float32) blas32.Vector {
	return blas32.Vector{N: len(v), Data: v, Inc: 1}
}

// MatVec computes out = m * v with single precision BLAS sgemv.
func MatVec(out []float32, m *Mat, v []float32) error {
	if out == nil || m == nil || v == nil {
		return ErrNotAllocated
	}
	if len(v) != m.Cols {
		return fmt.Errorf("%w: input vector has %d coeffs, matrix width is %d", ErrDimension, len(v), m.Cols)
	}
	if len(out) != m.Rows {
		return fmt.Errorf("%w: output vector has %d coeffs, matrix height is %d", ErrDimension, len(out), m.Rows)
	}
	if m.Rows == 0 || m.Cols == 0 {
		clear(out)
		return nil
	}
	blas32.Gemv(blas.NoTrans, 1, general(m), vector(v), 0, vector(out))
	return nil
}

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return blas32.Nrm2(vector(v))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float32) (float32, error) {
	if a == nil || b == nil {
		return 0, ErrNotAllocated
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vectors have %d and %d coeffs", ErrDimension, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	diff := make([]float32, len(a))
	copy(diff, a)
	blas32.Axpy(-1, vector(b), vector(diff))
	return blas32.Nrm2(vector(diff)), nil
}
