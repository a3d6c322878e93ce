// Package linalg holds the dense float32 types shared by the driver and the
// benchmark, plus the software reference routines the hardware results are
// checked against.
package linalg

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNotAllocated = errors.New("linalg: operand is not allocated")
	ErrDimension    = errors.New("linalg: dimension mismatch")
)

// Mat represents a dense row-major matrix of float32 values.
//
// Rows and Cols are the logical shape. Stride is the number of elements
// between the starts of two consecutive rows and equals Cols for matrices
// built with NewMat.
type Mat struct {
	Rows, Cols int
	Stride     int
	Data       []float32
}

// NewMat allocates a zeroed rows x cols matrix.
func NewMat(rows, cols int) *Mat {
	if rows < 0 || cols < 0 {
		panic("negative dimension for matrix")
	}
	return &Mat{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float32, rows*cols),
	}
}

// NewMatFromData wraps data, which must hold exactly rows*cols values.
func NewMatFromData(rows, cols int, data []float32) (*Mat, error) {
	if rows < 0 || cols < 0 || rows*cols != len(data) {
		return nil, fmt.Errorf("%w: %dx%d matrix from %d values", ErrDimension, rows, cols, len(data))
	}
	return &Mat{Rows: rows, Cols: cols, Stride: cols, Data: data}, nil
}

func (m *Mat) At(i, j int) float32 {
	return m.Data[i*m.Stride+j]
}

func (m *Mat) Set(i, j int, v float32) {
	m.Data[i*m.Stride+j] = v
}

// Row returns a view of row i.
func (m *Mat) Row(i int) []float32 {
	if i < 0 || i >= m.Rows {
		panic("row index out of range")
	}
	start := i * m.Stride
	return m.Data[start : start+m.Cols]
}

// Fprint writes m one row per line.
func (m *Mat) Fprint(w io.Writer) error {
	for i := 0; i < m.Rows; i++ {
		if err := FprintVec(w, m.Row(i)); err != nil {
			return err
		}
	}
	return nil
}

// FprintVec writes v on one line with %f formatting.
func FprintVec(w io.Writer, v []float32) error {
	var sb strings.Builder
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%f", f)
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
