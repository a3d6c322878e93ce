package api

import (
	"context"
	"sync"

	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/matmul"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

// HardwareProvider grants exclusive use of the accelerator for the duration
// of fn. The card holds one programmed matrix, so runs must not interleave.
type HardwareProvider interface {
	WithHardware(ctx context.Context, fn func(hw bench.Hardware, info xdma.Info) error) error
}

type DeviceProviderConfig struct {
	// Attach opens the device. It is called lazily and again after a
	// previous device was detached.
	Attach func(ctx context.Context) (*xdma.Device, error)
	// Options configure the sequencer built on top of the device.
	Options []matmul.Option
}

// DeviceProvider attaches one device on first use and serializes access.
type DeviceProvider struct {
	cfg DeviceProviderConfig

	mu  sync.Mutex
	dev *xdma.Device
	seq *matmul.Sequencer
}

func NewDeviceProvider(cfg DeviceProviderConfig) *DeviceProvider {
	return &DeviceProvider{cfg: cfg}
}

func (p *DeviceProvider) WithHardware(ctx context.Context, fn func(hw bench.Hardware, info xdma.Info) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.dev.Attached() {
		dev, err := p.cfg.Attach(ctx)
		if err != nil {
			return err
		}
		p.dev = dev
		p.seq = matmul.New(dev, p.cfg.Options...)
	}
	return fn(p.seq, p.dev.Info())
}

// Close detaches the device if one is held.
func (p *DeviceProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil
	}
	err := p.dev.Detach()
	p.dev, p.seq = nil, nil
	return err
}
