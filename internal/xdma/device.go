// Package xdma drives the matrix-vector accelerator through the Xilinx XDMA
// character devices: one host-to-card stream, one card-to-host stream and a
// memory-mapped AXI-Lite control window.
package xdma

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samcharles93/xdmatvec/internal/logger"
)

// Default device nodes created by the XDMA driver for the first card.
const (
	DefaultH2CPath     = "/dev/xdma0_h2c_0"
	DefaultC2HPath     = "/dev/xdma0_c2h_0"
	DefaultControlPath = "/dev/xdma0_user"
)

// Geometry used when the accelerator reports zero width or height.
const (
	DefaultWidth  = 16
	DefaultHeight = 16
)

// Window is a mapped control region.
type Window interface {
	Bytes() []byte
	Unmap() error
}

// ControlFile is the opened control device, only needed until it is mapped.
type ControlFile interface {
	Map(size int) (Window, error)
	Close() error
}

// Opener acquires the three OS resources behind a device.
type Opener interface {
	OpenH2C(path string) (io.WriteCloser, error)
	OpenC2H(path string) (io.ReadCloser, error)
	OpenControl(path string) (ControlFile, error)
}

type Config struct {
	H2CPath     string
	C2HPath     string
	ControlPath string

	// Fallback geometry; zero means DefaultWidth / DefaultHeight.
	DefaultWidth  int
	DefaultHeight int

	// Opener defaults to the operating system device files.
	Opener Opener
}

func (c Config) withDefaults() Config {
	if c.H2CPath == "" {
		c.H2CPath = DefaultH2CPath
	}
	if c.C2HPath == "" {
		c.C2HPath = DefaultC2HPath
	}
	if c.ControlPath == "" {
		c.ControlPath = DefaultControlPath
	}
	if c.DefaultWidth <= 0 {
		c.DefaultWidth = DefaultWidth
	}
	if c.DefaultHeight <= 0 {
		c.DefaultHeight = DefaultHeight
	}
	if c.Opener == nil {
		c.Opener = SystemOpener()
	}
	return c
}

// Device is one attached accelerator. It owns its channels and mapping until
// Detach. A Device is not safe for concurrent use.
type Device struct {
	log logger.Logger

	regs *Registers
	win  Window
	h2c  io.WriteCloser
	c2h  io.ReadCloser

	width     int
	height    int
	hardFloat bool
}

// Info is the geometry and mode sampled at attach time.
type Info struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	HardFloat bool   `json:"hard_float"`
	Control   uint32 `json:"control"`
}

// Tag names the accelerator build, e.g. "16x16_hardfloat".
func (i Info) Tag() string {
	mode := "saf"
	if i.HardFloat {
		mode = "hardfloat"
	}
	return fmt.Sprintf("%dx%d_%s", i.Height, i.Width, mode)
}

// Attach opens both DMA channels and the control device, maps the control
// window and samples the geometry registers.
//
// A channel or control file that cannot be opened yields an error wrapping
// ErrFatal; nothing is left open. A failed mapping yields ErrMap.
func Attach(ctx context.Context, cfg Config) (*Device, error) {
	cfg = cfg.withDefaults()
	log := logger.FromContext(ctx).With("component", "xdma")

	h2c, err := cfg.Opener.OpenH2C(cfg.H2CPath)
	if err != nil {
		log.Error("could not open host-to-card channel", "path", cfg.H2CPath, "error", err)
		return nil, fmt.Errorf("%w: open %s: %w", ErrFatal, cfg.H2CPath, err)
	}
	c2h, err := cfg.Opener.OpenC2H(cfg.C2HPath)
	if err != nil {
		_ = h2c.Close()
		log.Error("could not open card-to-host channel", "path", cfg.C2HPath, "error", err)
		return nil, fmt.Errorf("%w: open %s: %w", ErrFatal, cfg.C2HPath, err)
	}
	release := func() {
		_ = h2c.Close()
		_ = c2h.Close()
	}

	ctl, err := cfg.Opener.OpenControl(cfg.ControlPath)
	if err != nil {
		release()
		log.Error("could not open control device", "path", cfg.ControlPath, "error", err)
		return nil, fmt.Errorf("%w: open %s: %w", ErrFatal, cfg.ControlPath, err)
	}
	win, err := ctl.Map(MapSize)
	// The mapping outlives the descriptor.
	_ = ctl.Close()
	if err != nil {
		release()
		log.Error("failed to mmap control device", "path", cfg.ControlPath, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrMap, cfg.ControlPath, err)
	}
	regs, err := NewRegisters(win.Bytes())
	if err != nil {
		_ = win.Unmap()
		release()
		return nil, fmt.Errorf("%w: %s: %w", ErrMap, cfg.ControlPath, err)
	}

	d := &Device{
		log:       log,
		regs:      regs,
		win:       win,
		h2c:       h2c,
		c2h:       c2h,
		width:     int(regs.Width()),
		height:    int(regs.Height()),
		hardFloat: regs.HardFloat(),
	}
	if d.width == 0 {
		log.Warn("hardware reported zero matrix width, using default", "default", cfg.DefaultWidth)
		d.width = cfg.DefaultWidth
	}
	if d.height == 0 {
		log.Warn("hardware reported zero matrix height, using default", "default", cfg.DefaultHeight)
		d.height = cfg.DefaultHeight
	}
	log.Debug("attached", "width", d.width, "height", d.height, "hard_float", d.hardFloat,
		"ctl", fmt.Sprintf("0x%08x", regs.Control()))
	return d, nil
}

// Detach unmaps the control window and closes both channels. Each resource is
// released only if still held, so Detach may be called more than once. Only
// an unmap failure is reported.
func (d *Device) Detach() error {
	if d == nil {
		return nil
	}
	var err error
	if d.win != nil {
		err = d.win.Unmap()
		d.win = nil
		d.regs = nil
	}
	if d.h2c != nil {
		_ = d.h2c.Close()
		d.h2c = nil
	}
	if d.c2h != nil {
		_ = d.c2h.Close()
		d.c2h = nil
	}
	return err
}

// Close is Detach, for use with defer.
func (d *Device) Close() error {
	return d.Detach()
}

func (d *Device) Attached() bool {
	return d != nil && d.regs != nil && d.h2c != nil && d.c2h != nil
}

// Geometry returns the matrix height and width the accelerator was built for.
func (d *Device) Geometry() (height, width int) {
	return d.height, d.width
}

func (d *Device) HardFloat() bool {
	return d.hardFloat
}

// Control reads the control register. It returns ErrDetached after Detach.
func (d *Device) Control() (uint32, error) {
	if !d.Attached() {
		return 0, ErrDetached
	}
	return d.regs.Control(), nil
}

func (d *Device) Info() Info {
	info := Info{Width: d.width, Height: d.height, HardFloat: d.hardFloat}
	if ctl, err := d.Control(); err == nil {
		info.Control = ctl
	}
	return info
}

// IsFatal reports whether err means the device cannot be used at all.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
