package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xdmatvec/internal/linalg"
	"github.com/samcharles93/xdmatvec/internal/matmul"
)

func checkCmd() *cli.Command {
	var (
		seed    int64
		verbose bool
	)

	return &cli.Command{
		Name:   "check",
		Usage:  "Program one random matrix, multiply one vector and print the distance to the reference",
		Before: prepare,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "seed",
				Aliases:     []string{"s"},
				Usage:       "seed for the random generator (-1 = current time)",
				Value:       -1,
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "print",
				Aliases:     []string{"p", "verbose"},
				Usage:       "print operands and both results",
				Destination: &verbose,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBenchConfig(cmd, fileConfig, nil, nil, &seed)
			return runCheck(ctx, os.Stdout, resolveSeed(ctx, seed, time.Now), verbose)
		},
	}
}

func runCheck(ctx context.Context, w io.Writer, seed int64, verbose bool) error {
	dev, err := attachOrExit(ctx)
	if err != nil {
		return err
	}
	defer detach(ctx, dev)

	seq := matmul.New(dev, sequencerOptions(ctx)...)
	height, width := seq.Geometry()

	gen := linalg.NewRand(seed)
	m := linalg.NewMat(height, width)
	v := make([]float32, width)
	if err := gen.FillMat(m); err != nil {
		return cli.Exit(fmt.Sprintf("error: generate matrix: %v", err), 1)
	}
	if err := gen.FillVec(v); err != nil {
		return cli.Exit(fmt.Sprintf("error: generate vector: %v", err), 1)
	}

	hw := make([]float32, height)
	if _, err := seq.MatMul(hw, m, v, true); err != nil {
		return cli.Exit(fmt.Sprintf("error: hardware matmul: %v", err), 1)
	}
	sw := make([]float32, height)
	if err := linalg.MatVec(sw, m, v); err != nil {
		return cli.Exit(fmt.Sprintf("error: software matmul: %v", err), 1)
	}
	dist, err := linalg.Distance(sw, hw)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: distance: %v", err), 1)
	}

	if verbose {
		_, _ = fmt.Fprintln(w, "matrix:")
		_ = m.Fprint(w)
		_, _ = fmt.Fprint(w, "vector: ")
		_ = linalg.FprintVec(w, v)
		_, _ = fmt.Fprint(w, "hw: ")
		_ = linalg.FprintVec(w, hw)
		_, _ = fmt.Fprint(w, "sw: ")
		_ = linalg.FprintVec(w, sw)
	}
	_, err = fmt.Fprintf(w, "Distance: %f\n", dist)
	return err
}
