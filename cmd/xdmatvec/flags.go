package main

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xdmatvec/internal/matmul"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

var (
	configFile    string
	h2cPath       string
	c2hPath       string
	controlPath   string
	settle        time.Duration
	defaultWidth  int64
	defaultHeight int64
	simulate      bool
	logLevel      string
	logFormat     string
	debug         bool
)

func commonFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Value:       configPath(),
			Sources:     cli.EnvVars("XDMATVEC_CONFIG"),
			Destination: &configFile,
		},
	}, loggingFlags()...)
}

func deviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "h2c",
			Usage:       "host-to-card DMA channel",
			Value:       xdma.DefaultH2CPath,
			Destination: &h2cPath,
		},
		&cli.StringFlag{
			Name:        "c2h",
			Usage:       "card-to-host DMA channel",
			Value:       xdma.DefaultC2HPath,
			Destination: &c2hPath,
		},
		&cli.StringFlag{
			Name:        "ctl",
			Usage:       "AXI-Lite control device",
			Value:       xdma.DefaultControlPath,
			Destination: &controlPath,
		},
		&cli.DurationFlag{
			Name: "settle",
			Usage: "fixed wait between sending a vector and reading the result; " +
				"the card has no completion flag, so a value below its compute latency returns stale results",
			Value:       matmul.DefaultSettle,
			Destination: &settle,
		},
		&cli.Int64Flag{
			Name:        "default-width",
			Usage:       "matrix width assumed when the card reports zero",
			Value:       xdma.DefaultWidth,
			Destination: &defaultWidth,
		},
		&cli.Int64Flag{
			Name:        "default-height",
			Usage:       "matrix height assumed when the card reports zero",
			Value:       xdma.DefaultHeight,
			Destination: &defaultHeight,
		},
		&cli.BoolFlag{
			Name:        "sim",
			Usage:       "run against a simulated card of the default geometry",
			Destination: &simulate,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
