// Package sim emulates the matrix-vector card behind the XDMA device nodes.
// It implements xdma.Opener so the full driver path runs without hardware.
package sim

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/samcharles93/xdmatvec/internal/linalg"
	"github.com/samcharles93/xdmatvec/internal/wire"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

var (
	ErrClosed    = errors.New("sim: channel closed")
	ErrNoMatrix  = errors.New("sim: vector sent before any matrix was programmed")
	ErrBadLength = errors.New("sim: transfer length does not match geometry")
	ErrNoResult  = errors.New("sim: no result pending")
)

// Card is a simulated accelerator. Geometry registers report Height and Width
// as given, which lets tests exercise the zero-geometry fallback.
type Card struct {
	mu sync.Mutex

	height, width int
	mode          uint32
	win           []byte
	matrix        *linalg.Mat
	pending       []byte

	programs int
	sends    int
	receives int
}

func NewCard(height, width int, hardFloat bool) *Card {
	c := &Card{
		height: height,
		width:  width,
		win:    make([]byte, xdma.MapSize),
	}
	if hardFloat {
		c.mode = xdma.ModeHardFloat
	}
	binary.NativeEndian.PutUint32(c.win[0:], c.mode)
	binary.NativeEndian.PutUint32(c.win[4:], uint32(width))
	binary.NativeEndian.PutUint32(c.win[8:], uint32(height))
	return c
}

// Counts returns how many program, send and receive transfers the card saw.
func (c *Card) Counts() (programs, sends, receives int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.programs, c.sends, c.receives
}

// Opener exposes the card as the three device resources.
func (c *Card) Opener() xdma.Opener {
	return opener{c: c}
}

// geometry as the driver sees it after the zero fallback.
func (c *Card) geometry() (int, int) {
	h, w := c.height, c.width
	if h == 0 {
		h = xdma.DefaultHeight
	}
	if w == 0 {
		w = xdma.DefaultWidth
	}
	return h, w
}

func (c *Card) write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	words, err := wire.Words(p)
	if err != nil {
		return 0, err
	}
	h, w := c.geometry()

	ctl := binary.NativeEndian.Uint32(c.win[0:])
	if ctl&^xdma.ModeHardFloat == xdma.CmdProgram {
		if len(words) != h*w {
			return 0, ErrBadLength
		}
		m := linalg.NewMat(h, w)
		for i, word := range words {
			m.Data[i] = wire.Decode(word)
		}
		c.matrix = m
		c.programs++
		binary.NativeEndian.PutUint32(c.win[0:], c.mode)
		return len(p), nil
	}

	if c.matrix == nil {
		return 0, ErrNoMatrix
	}
	if len(words) != w {
		return 0, ErrBadLength
	}
	v := make([]float32, w)
	for i, word := range words {
		v[i] = wire.Decode(word)
	}
	out := make([]float32, h)
	if err := linalg.MatVec(out, c.matrix, v); err != nil {
		return 0, err
	}
	// The card streams the last row first.
	rev := make([]uint64, h)
	for i := range out {
		rev[h-1-i] = wire.Encode(out[i])
	}
	c.pending = wire.PutWords(rev)
	c.sends++
	return len(p), nil
}

func (c *Card) read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return 0, ErrNoResult
	}
	n := copy(p, c.pending)
	c.pending = nil
	c.receives++
	return n, nil
}

type opener struct {
	c *Card
}

func (o opener) OpenH2C(string) (io.WriteCloser, error) {
	return &h2c{c: o.c}, nil
}

func (o opener) OpenC2H(string) (io.ReadCloser, error) {
	return &c2h{c: o.c}, nil
}

func (o opener) OpenControl(string) (xdma.ControlFile, error) {
	return control{c: o.c}, nil
}

type h2c struct {
	c      *Card
	closed bool
}

func (w *h2c) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.c.write(p)
}

func (w *h2c) Close() error {
	w.closed = true
	return nil
}

type c2h struct {
	c      *Card
	closed bool
}

func (r *c2h) Read(p []byte) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	return r.c.read(p)
}

func (r *c2h) Close() error {
	r.closed = true
	return nil
}

type control struct {
	c *Card
}

func (ctl control) Map(size int) (xdma.Window, error) {
	if size > len(ctl.c.win) {
		return nil, ErrBadLength
	}
	return window{mem: ctl.c.win[:size]}, nil
}

func (control) Close() error { return nil }

type window struct {
	mem []byte
}

func (w window) Bytes() []byte { return w.mem }
func (window) Unmap() error    { return nil }
