package linalg

import "math/rand"

// Rand produces the benchmark's random coefficients. Each coefficient is the
// quotient of two non-negative 31-bit draws, the divisor never zero, so values
// are non-negative and spread over many orders of magnitude.
type Rand struct {
	rng *rand.Rand
}

func NewRand(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

func (r *Rand) coeff() float32 {
	num := r.rng.Int31()
	den := r.rng.Int31()
	for den == 0 {
		den = r.rng.Int31()
	}
	return float32(num) / float32(den)
}

// FillVec populates v.
func (r *Rand) FillVec(v []float32) error {
	if v == nil {
		return ErrNotAllocated
	}
	for i := range v {
		v[i] = r.coeff()
	}
	return nil
}

// FillMat populates m row by row.
func (r *Rand) FillMat(m *Mat) error {
	if m == nil || m.Data == nil {
		return ErrNotAllocated
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = r.coeff()
		}
	}
	return nil
}
