package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

func hardwareCmd() *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:    "hardware",
		Aliases: []string{"hw"},
		Usage:   "Print the accelerator geometry and float mode",
		Before:  prepare,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "print geometry, mode and control register separately",
				Destination: &verbose,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return printHardware(ctx, os.Stdout, verbose)
		},
	}
}
