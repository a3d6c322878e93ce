package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var showHardware bool

	return &cli.Command{
		Name:  "xdmatvec",
		Usage: "Matrix-vector accelerator driver and benchmark over XDMA",
		Flags: append(append(commonFlags(), deviceFlags()...),
			&cli.BoolFlag{
				Name:        "hardware",
				Aliases:     []string{"w"},
				Usage:       "print hardware information and exit",
				Local:       true,
				Destination: &showHardware,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !showHardware {
				return cli.ShowAppHelp(cmd)
			}
			ctx, err := prepare(ctx, cmd)
			if err != nil {
				return err
			}
			return printHardware(ctx, os.Stdout, false)
		},
		Commands: []*cli.Command{
			benchCmd(),
			checkCmd(),
			hardwareCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}
