package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xdmatvec/internal/logger"
	"github.com/samcharles93/xdmatvec/internal/matmul"
	"github.com/samcharles93/xdmatvec/internal/report"
	"github.com/samcharles93/xdmatvec/internal/xdma"
	"github.com/samcharles93/xdmatvec/internal/xdma/sim"
)

// exitFatal is the status for a device that cannot be opened at all.
const exitFatal = 2

func deviceConfig() xdma.Config {
	cfg := xdma.Config{
		H2CPath:       h2cPath,
		C2HPath:       c2hPath,
		ControlPath:   controlPath,
		DefaultWidth:  int(defaultWidth),
		DefaultHeight: int(defaultHeight),
	}
	if simulate {
		cfg.Opener = sim.NewCard(int(defaultHeight), int(defaultWidth), false).Opener()
	}
	return cfg
}

func attachDevice(ctx context.Context) (*xdma.Device, error) {
	if simulate {
		logger.FromContext(ctx).Warn("using simulated card", "height", defaultHeight, "width", defaultWidth)
	}
	return xdma.Attach(ctx, deviceConfig())
}

// attachOrExit attaches the device and turns failures into CLI exits.
func attachOrExit(ctx context.Context) (*xdma.Device, error) {
	dev, err := attachDevice(ctx)
	if err == nil {
		return dev, nil
	}
	if xdma.IsFatal(err) {
		return nil, cli.Exit(fmt.Sprintf("fatal: %v", err), exitFatal)
	}
	return nil, cli.Exit(fmt.Sprintf("error: attach: %v", err), 1)
}

func detach(ctx context.Context, dev *xdma.Device) {
	if err := dev.Detach(); err != nil {
		logger.FromContext(ctx).Error("detach failed", "error", err)
	}
}

func sequencerOptions(ctx context.Context) []matmul.Option {
	return []matmul.Option{
		matmul.WithSettle(settle),
		matmul.WithLogger(logger.FromContext(ctx).With("component", "matmul")),
	}
}

func printHardware(ctx context.Context, w io.Writer, verbose bool) error {
	dev, err := attachOrExit(ctx)
	if err != nil {
		return err
	}
	defer detach(ctx, dev)
	return report.Hardware(w, dev.Info(), verbose)
}
