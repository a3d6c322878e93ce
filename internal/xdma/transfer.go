package xdma

import (
	"fmt"

	"github.com/samcharles93/xdmatvec/internal/linalg"
	"github.com/samcharles93/xdmatvec/internal/wire"
)

// Program loads m into the accelerator: it issues CmdProgram on the control
// register and streams the row-major coefficients in a single write.
// It returns the control register read back after the transfer.
func (d *Device) Program(m *linalg.Mat) (uint32, error) {
	if !d.Attached() {
		return 0, ErrDetached
	}
	if m == nil || m.Rows != d.height || m.Cols != d.width {
		rows, cols := 0, 0
		if m != nil {
			rows, cols = m.Rows, m.Cols
		}
		return 0, fmt.Errorf("%w: cannot program %dx%d matrix into %dx%d hardware",
			ErrDimension, rows, cols, d.height, d.width)
	}
	words, err := wire.FlattenMatrix(m.Rows, m.Cols, m.Stride, m.Data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDimension, err)
	}

	d.regs.SetControl(CmdProgram)
	if err := d.write(wire.PutWords(words)); err != nil {
		return 0, fmt.Errorf("program: %w", err)
	}
	return d.regs.Control(), nil
}

// Send streams the input vector to the accelerator.
func (d *Device) Send(v []float32) (uint32, error) {
	if !d.Attached() {
		return 0, ErrDetached
	}
	if len(v) != d.width {
		return 0, fmt.Errorf("%w: cannot send %d coeffs to hardware of width %d",
			ErrDimension, len(v), d.width)
	}
	if err := d.write(wire.PutWords(wire.FlattenVector(v))); err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}
	return d.regs.Control(), nil
}

// Receive reads the result vector into out. The card emits it in reverse row
// order; out is only written when the whole vector arrived.
func (d *Device) Receive(out []float32) (uint32, error) {
	if !d.Attached() {
		return 0, ErrDetached
	}
	if len(out) != d.height {
		return 0, fmt.Errorf("%w: cannot read into %d coeffs from hardware of height %d",
			ErrDimension, len(out), d.height)
	}

	buf := make([]byte, d.height*wire.WordSize)
	n, err := d.c2h.Read(buf)
	if err != nil {
		d.log.Error("card-to-host read failed", "read", n, "error", err)
		return 0, fmt.Errorf("receive: %w: %w", ErrTransfer, err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("receive: %w: got %d of %d bytes", ErrShortTransfer, n, len(buf))
	}
	words, err := wire.Words(buf)
	if err != nil {
		return 0, fmt.Errorf("receive: %w", err)
	}
	if err := wire.DecodeReversed(out, words); err != nil {
		return 0, fmt.Errorf("receive: %w", err)
	}
	return d.regs.Control(), nil
}

func (d *Device) write(buf []byte) error {
	n, err := d.h2c.Write(buf)
	if err != nil {
		d.log.Error("host-to-card write failed", "written", n, "error", err)
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortTransfer, n, len(buf))
	}
	return nil
}
