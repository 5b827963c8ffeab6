package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

func main() {
	app := &cli.App{
		Name:  "bstctl",
		Usage: "drive an in-memory binary search tree line by line from stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"XLOG_LVL"},
			},
			&cli.StringFlag{
				Name:  "log-encoder",
				Value: "text",
				Usage: "json or text",
			},
			&cli.StringFlag{
				Name:  "metrics",
				Value: metricsNone,
				Usage: "none, console or prometheus",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Value: "127.0.0.1:9527",
				Usage: "listen address of the prometheus exporter",
			},
			&cli.BoolFlag{
				Name:  "thread-safe",
				Usage: "guard the container by a lock",
			},
			&cli.StringFlag{
				Name:  "prompt",
				Value: "bst> ",
			},
		},
		Action: runBSTCtl,
	}
	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBSTCtl(cctx *cli.Context) error {
	cfg := appConfig{
		logLevel:    cctx.String("log-level"),
		logEncoder:  cctx.String("log-encoder"),
		logWriter:   zapcore.Lock(os.Stderr),
		metrics:     cctx.String("metrics"),
		metricsAddr: cctx.String("metrics-addr"),
		threadSafe:  cctx.Bool("thread-safe"),
		prompt:      cctx.String("prompt"),
		in:          os.Stdin,
		out:         os.Stdout,
	}

	var r *repl
	app := fx.New(append(appOptions(cfg), fx.Populate(&r))...)
	startCtx, cancel := context.WithTimeout(cctx.Context, 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := r.run(cctx.Context)

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return multierr.Combine(runErr, app.Stop(stopCtx))
}
