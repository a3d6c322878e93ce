package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/logger"
	"github.com/samcharles93/xdmatvec/internal/matmul"
	"github.com/samcharles93/xdmatvec/internal/report"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

func benchCmd() *cli.Command {
	var (
		matrices int64
		vectors  int64
		seed     int64
		dryRun   bool
		verbose  bool
		jsonOut  string
	)

	return &cli.Command{
		Name:   "bench",
		Usage:  "Compare hardware and software matrix-vector products on random operands",
		Before: prepare,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "n-matrices",
				Aliases:     []string{"m"},
				Usage:       "generate this many random float matrices",
				Value:       1,
				Destination: &matrices,
			},
			&cli.Int64Flag{
				Name:        "n-vectors",
				Aliases:     []string{"n"},
				Usage:       "generate this many random vectors for each matrix",
				Value:       1,
				Destination: &vectors,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Aliases:     []string{"s"},
				Usage:       "seed for the random generator (-1 = current time)",
				Value:       -1,
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print the generated matrices without touching the hardware",
				Destination: &dryRun,
			},
			&cli.BoolFlag{
				Name:        "print",
				Aliases:     []string{"p", "verbose"},
				Usage:       "print hardware and software results of every trial",
				Destination: &verbose,
			},
			&cli.StringFlag{
				Name:        "json",
				Usage:       "write the statistics and per-trial records to this file",
				Destination: &jsonOut,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBenchConfig(cmd, fileConfig, &matrices, &vectors, &seed)
			cfg := bench.Config{
				Matrices: int(matrices),
				Vectors:  int(vectors),
				Seed:     resolveSeed(ctx, seed, time.Now),
				DryRun:   dryRun,
				Verbose:  verbose,
			}
			if err := cfg.Validate(); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return runBench(ctx, os.Stdout, cfg, jsonOut)
		},
	}
}

// resolveSeed replaces a negative seed with the current Unix time.
func resolveSeed(ctx context.Context, seed int64, now func() time.Time) int64 {
	if seed >= 0 {
		return seed
	}
	seed = now().Unix()
	logger.FromContext(ctx).Info("using time-based seed", "seed", seed)
	return seed
}

func runBench(ctx context.Context, w io.Writer, cfg bench.Config, jsonOut string) error {
	log := logger.FromContext(ctx)
	runner := &bench.Runner{Out: w}
	// Per-trial records are only needed for the JSON report.
	cfg.KeepTrials = jsonOut != ""

	var info *xdma.Info
	if cfg.DryRun {
		runner.Height, runner.Width = int(defaultHeight), int(defaultWidth)
	} else {
		dev, err := attachOrExit(ctx)
		if err != nil {
			return err
		}
		defer detach(ctx, dev)

		i := dev.Info()
		info = &i
		runner.HW = matmul.New(dev, sequencerOptions(ctx)...)
		if err := report.Header(w, i, cfg); err != nil {
			return err
		}
	}

	stats, err := runner.Run(ctx, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: benchmark: %v", err), 1)
	}
	log.Info("benchmark finished", "id", stats.ID, "trials", stats.Runs(), "duration", stats.Duration)

	if !cfg.DryRun {
		if err := report.Text(w, stats); err != nil {
			return err
		}
	}
	if jsonOut != "" {
		if err := report.WriteJSONFile(jsonOut, report.NewDocument(info, stats)); err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), 1)
		}
		log.Info("wrote report", "path", jsonOut)
	}
	return nil
}
