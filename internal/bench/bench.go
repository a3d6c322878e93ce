// Package bench drives random matrix-vector trials through the accelerator
// and the software reference, and accumulates error and timing statistics.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/xdmatvec/internal/linalg"
	"github.com/samcharles93/xdmatvec/internal/logger"
)

var (
	ErrInvalidConfig = errors.New("bench: invalid configuration")
	ErrNoHardware    = errors.New("bench: no hardware attached")
)

// Config is the run description supplied by the command line.
type Config struct {
	Matrices int   `json:"n_matrices" yaml:"n_matrices"`
	Vectors  int   `json:"n_vectors" yaml:"n_vectors"`
	Seed     int64 `json:"seed" yaml:"seed"`
	// DryRun generates and prints matrices without touching hardware.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
	// Verbose prints the hardware and software result of every trial.
	Verbose bool `json:"verbose" yaml:"verbose"`
	// KeepTrials retains every Trial in Stats.Trials. Without it a run
	// holds only running sums and maxima.
	KeepTrials bool `json:"keep_trials" yaml:"keep_trials"`
}

func (c Config) Validate() error {
	if c.Matrices <= 0 {
		return fmt.Errorf("%w: n-matrices must be a strictly positive int, got %d", ErrInvalidConfig, c.Matrices)
	}
	if c.Vectors <= 0 {
		return fmt.Errorf("%w: n-vectors must be a strictly positive int, got %d", ErrInvalidConfig, c.Vectors)
	}
	if c.Matrices > math.MaxInt/c.Vectors {
		return fmt.Errorf("%w: %d matrices x %d vectors overflows the trial count", ErrInvalidConfig, c.Matrices, c.Vectors)
	}
	return nil
}

// Hardware is what the harness needs from the accelerator.
// *matmul.Sequencer implements it.
type Hardware interface {
	Geometry() (height, width int)
	Program(m *linalg.Mat) (uint32, error)
	MatMul(out []float32, m *linalg.Mat, v []float32, program bool) (uint32, error)
}

// Generator fills operands with random coefficients.
type Generator interface {
	FillMat(m *linalg.Mat) error
	FillVec(v []float32) error
}

// Runner wires the collaborators of a benchmark run. Zero-valued fields fall
// back to the linalg implementations.
type Runner struct {
	HW Hardware

	// Geometry for dry runs without hardware.
	Height, Width int

	NewGenerator func(seed int64) Generator
	Reference    func(out []float32, m *linalg.Mat, v []float32) error
	Distance     func(a, b []float32) (float32, error)
	Norm         func(v []float32) float32

	// Out receives printed matrices and vectors (dry-run and verbose modes).
	Out io.Writer
	Now func() time.Time
}

func (r *Runner) defaults() {
	if r.NewGenerator == nil {
		r.NewGenerator = func(seed int64) Generator { return linalg.NewRand(seed) }
	}
	if r.Reference == nil {
		r.Reference = linalg.MatVec
	}
	if r.Distance == nil {
		r.Distance = linalg.Distance
	}
	if r.Norm == nil {
		r.Norm = linalg.Norm
	}
	if r.Out == nil {
		r.Out = io.Discard
	}
	if r.Now == nil {
		r.Now = time.Now
	}
}

func (r *Runner) geometry() (int, int, error) {
	if r.HW != nil {
		h, w := r.HW.Geometry()
		return h, w, nil
	}
	if r.Height <= 0 || r.Width <= 0 {
		return 0, 0, fmt.Errorf("%w: no geometry for dry run", ErrInvalidConfig)
	}
	return r.Height, r.Width, nil
}

// Run executes cfg.Matrices x cfg.Vectors trials. Each matrix is programmed
// once and reused for all of its vectors. Failures of the generator, the
// reference or the distance are logged and the run goes on; any hardware
// failure aborts the run and is returned. Cancelling ctx stops the run before
// the next matrix.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.defaults()
	if r.HW == nil && !cfg.DryRun {
		return nil, ErrNoHardware
	}
	height, width, err := r.geometry()
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With("component", "bench")
	s := newSession(cfg)
	s.stats.ID = uuid.NewString()
	s.stats.Height, s.stats.Width = height, width
	s.stats.StartedAt = r.Now()

	gen := r.NewGenerator(cfg.Seed)
	mat := linalg.NewMat(height, width)
	vec := make([]float32, width)
	hwResult := make([]float32, height)
	swResult := make([]float32, height)

	for m := range cfg.Matrices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := gen.FillMat(mat); err != nil {
			log.Warn("non-zero return from matrix generator", "matrix", m+1, "error", err)
		}

		if cfg.DryRun {
			if _, err := fmt.Fprintf(r.Out, "matrix %d:\n", m+1); err != nil {
				return nil, err
			}
			if err := mat.Fprint(r.Out); err != nil {
				return nil, err
			}
			continue
		}

		ctl, err := r.HW.Program(mat)
		if err != nil {
			log.Error("program failed", "matrix", m+1, "error", err)
			return nil, fmt.Errorf("matrix %d: %w", m+1, err)
		}
		log.Debug("ctl after program", "matrix", m+1, "ctl", fmt.Sprintf("0x%08x", ctl))

		for v := range cfg.Vectors {
			log.Debug("sending vector", "vector", v+1, "matrix", m+1)
			if err := gen.FillVec(vec); err != nil {
				log.Warn("non-zero return from vector generator", "vector", v+1, "error", err)
			}

			start := r.Now()
			ctl, err := r.HW.MatMul(hwResult, mat, vec, false)
			hwElapsed := r.Now().Sub(start)
			if err != nil {
				log.Error("hardware matmul failed", "matrix", m+1, "vector", v+1, "error", err)
				return nil, fmt.Errorf("matrix %d vector %d: %w", m+1, v+1, err)
			}
			log.Debug("ctl after matmul", "ctl", fmt.Sprintf("0x%08x", ctl))

			start = r.Now()
			err = r.Reference(swResult, mat, vec)
			swElapsed := r.Now().Sub(start)
			if err != nil {
				log.Warn("non-zero return from software matmul", "error", err)
			}

			absErr, err := r.Distance(swResult, hwResult)
			if err != nil {
				log.Warn("non-zero return from distance", "error", err)
			}
			norm := r.Norm(vec)
			log.Debug("trial error", "matrix", m+1, "vector", v+1, "error", absErr)

			s.record(Trial{
				Matrix: m + 1,
				Vector: v + 1,
				AbsErr: float64(absErr),
				RelErr: relative(absErr, norm),
				HW:     hwElapsed,
				SW:     swElapsed,
			})

			if cfg.Verbose {
				if err := printTrial(r.Out, m+1, v+1, hwResult, swResult); err != nil {
					return nil, err
				}
			}
		}
	}

	return s.finish(r.Now()), nil
}

func printTrial(w io.Writer, matrix, vector int, hw, sw []float32) error {
	if _, err := fmt.Fprintf(w, "matrix %d vector %d\nhw: ", matrix, vector); err != nil {
		return err
	}
	if err := linalg.FprintVec(w, hw); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "sw: "); err != nil {
		return err
	}
	return linalg.FprintVec(w, sw)
}

func relative(absErr, norm float32) float64 {
	if norm == 0 {
		return 0
	}
	return float64(absErr) / float64(norm)
}
