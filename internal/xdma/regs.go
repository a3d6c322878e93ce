package xdma

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// MapSize is the length of the control window mapping.
const MapSize = 64

// Register offsets inside the control window.
const (
	offControl = 0x00
	offWidth   = 0x04
	offHeight  = 0x08

	regSpan = offHeight + 4
)

// CmdProgram written to the control register loads the next host-to-card
// transfer as matrix coefficients.
const CmdProgram uint32 = 0x1

// ModeHardFloat is set in the control register when the accelerator was built
// with the native float datapath.
const ModeHardFloat uint32 = 1 << 31

// Registers is a typed view of the control window. Bounds and alignment are
// checked once in NewRegisters; accessors never index out of range.
type Registers struct {
	win []byte
}

func NewRegisters(win []byte) (*Registers, error) {
	if len(win) < regSpan {
		return nil, fmt.Errorf("control window too small: %d bytes, need %d", len(win), regSpan)
	}
	if uintptr(unsafe.Pointer(&win[0]))%4 != 0 {
		return nil, fmt.Errorf("control window is not 32-bit aligned")
	}
	return &Registers{win: win}, nil
}

func (r *Registers) reg(off int) *uint32 {
	return (*uint32)(unsafe.Pointer(&r.win[off]))
}

// Control reads the control/status register.
func (r *Registers) Control() uint32 {
	return atomic.LoadUint32(r.reg(offControl))
}

// SetControl writes a command to the control register.
func (r *Registers) SetControl(v uint32) {
	atomic.StoreUint32(r.reg(offControl), v)
}

func (r *Registers) Width() uint32 {
	return atomic.LoadUint32(r.reg(offWidth))
}

func (r *Registers) Height() uint32 {
	return atomic.LoadUint32(r.reg(offHeight))
}

// HardFloat reports the mode bit packed into the control register.
func (r *Registers) HardFloat() bool {
	return r.Control()&ModeHardFloat != 0
}
