package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xdmatvec/internal/api"
	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/logger"
	"github.com/samcharles93/xdmatvec/internal/webui"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		keep        int64
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the hardware and benchmark REST API",
		Before: prepare,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "keep",
				Usage:       "number of finished benchmarks kept in memory",
				Value:       api.DefaultStoreLimit,
				Destination: &keep,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, fileConfig, &addr)
			log := logger.FromContext(ctx)

			provider := api.NewDeviceProvider(api.DeviceProviderConfig{
				Attach:  attachDevice,
				Options: sequencerOptions(ctx),
			})
			defer func() {
				if err := provider.Close(); err != nil {
					log.Error("detach failed", "error", err)
				}
			}()

			// Attach up front so a missing card fails the command, not the first request.
			err := provider.WithHardware(ctx, func(_ bench.Hardware, info xdma.Info) error {
				log.Info("hardware attached", "tag", info.Tag())
				return nil
			})
			if err != nil {
				if xdma.IsFatal(err) {
					return cli.Exit(fmt.Sprintf("fatal: %v", err), exitFatal)
				}
				return cli.Exit(fmt.Sprintf("error: attach: %v", err), 1)
			}

			server := api.NewServer(api.NewResultStore(int(keep)), provider)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			e.Use(withLogger(log))
			server.Register(e)
			e.GET("/", echo.WrapHandler(webui.Handler()))
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// withLogger makes log available to handlers through the request context.
func withLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), log)))
			return next(c)
		}
	}
}
