// Package matmul sequences the transfer primitives into one hardware
// matrix-vector multiply.
//
// The accelerator exposes no completion flag the host polls. After the input
// vector is sent the sequencer sleeps for a fixed settle interval and then
// reads the result. This is only correct while the card finishes within that
// interval for the configured geometry and clock; a slower build returns stale
// or partial results. Keep Settle generous when the bitstream changes.
package matmul

import (
	"fmt"
	"time"

	"github.com/samcharles93/xdmatvec/internal/linalg"
	"github.com/samcharles93/xdmatvec/internal/logger"
)

// DefaultSettle is the wait between send and receive.
const DefaultSettle = time.Millisecond

// Link is the set of transfer primitives the sequencer drives.
// *xdma.Device implements it.
type Link interface {
	Program(m *linalg.Mat) (uint32, error)
	Send(v []float32) (uint32, error)
	Receive(out []float32) (uint32, error)
	Geometry() (height, width int)
}

// Clock abstracts the settle wait.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock sleeps on the wall clock.
func RealClock() Clock { return realClock{} }

// Sequencer runs program/send/settle/receive against one link.
type Sequencer struct {
	link   Link
	clock  Clock
	settle time.Duration
	log    logger.Logger
}

type Option func(*Sequencer)

func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithSettle overrides DefaultSettle. Negative values are treated as zero.
func WithSettle(d time.Duration) Option {
	return func(s *Sequencer) { s.settle = max(d, 0) }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Sequencer) { s.log = l }
}

func New(link Link, opts ...Option) *Sequencer {
	s := &Sequencer{
		link:   link,
		clock:  RealClock(),
		settle: DefaultSettle,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sequencer) Settle() time.Duration {
	return s.settle
}

func (s *Sequencer) Geometry() (height, width int) {
	return s.link.Geometry()
}

// Program loads m without running a multiply.
func (s *Sequencer) Program(m *linalg.Mat) (uint32, error) {
	ctl, err := s.link.Program(m)
	if err != nil {
		return 0, err
	}
	s.log.Debug("ctl after program", "ctl", hex(ctl))
	return ctl, nil
}

// MatMul computes out = m * v on the accelerator. When program is false the
// matrix already loaded into the card is used and m is not transferred.
// The first failing step aborts the sequence. The control register value after
// the receive is returned.
func (s *Sequencer) MatMul(out []float32, m *linalg.Mat, v []float32, program bool) (uint32, error) {
	if program {
		if _, err := s.Program(m); err != nil {
			return 0, fmt.Errorf("program: %w", err)
		}
	}

	ctl, err := s.link.Send(v)
	if err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}
	s.log.Debug("ctl after send", "ctl", hex(ctl))

	s.clock.Sleep(s.settle)

	ctl, err = s.link.Receive(out)
	if err != nil {
		return 0, fmt.Errorf("receive: %w", err)
	}
	s.log.Debug("ctl after receive", "ctl", hex(ctl))
	return ctl, nil
}

func hex(ctl uint32) string {
	return fmt.Sprintf("0x%08x", ctl)
}
