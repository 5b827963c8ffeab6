package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/bstkv/lib/infra"
	"github.com/benz9527/bstkv/lib/tree"
	"github.com/benz9527/bstkv/observability"
	"github.com/benz9527/bstkv/xlog"
)

const (
	metricsNone       = "none"
	metricsConsole    = "console"
	metricsPrometheus = "prometheus"
)

type appConfig struct {
	logLevel    string
	logEncoder  string
	logWriter   zapcore.WriteSyncer
	metrics     string
	metricsAddr string
	threadSafe  bool
	prompt      string
	in          io.Reader
	out         io.Writer
}

func newLogger(lc fx.Lifecycle, cfg appConfig) (xlog.XLogger, error) {
	lvl, err := xlog.ParseLogLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	enc, err := xlog.ParseLogEncoder(cfg.logEncoder)
	if err != nil {
		return nil, err
	}
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerContextFieldExtract(ctxFieldLine),
		xlog.WithXLoggerContextFieldExtract(ctxFieldCmd, "command"),
	}
	if cfg.logWriter != nil {
		opts = append(opts, xlog.WithXLoggerWriter(cfg.logWriter))
	}
	logger := xlog.NewXLogger(opts...)
	lc.Append(fx.StopHook(func() error {
		return logger.Close()
	}))
	return logger, nil
}

func newMeterProvider(lc fx.Lifecycle, cfg appConfig, logger xlog.XLogger) (metric.MeterProvider, error) {
	switch cfg.metrics {
	case metricsNone, "":
		return noop.NewMeterProvider(), nil
	case metricsConsole:
		mp, shutdown, err := observability.NewConsoleMetricsExporter(
			10*time.Second, 5*time.Second,
			stdoutmetric.WithWriter(os.Stderr),
		)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(shutdown))
		return mp, nil
	case metricsPrometheus:
		mp, shutdown, err := observability.NewPrometheusMetricsExporter()
		if err != nil {
			return nil, err
		}
		if err = observability.StartRuntimeStats(mp); err != nil {
			return nil, err
		}
		srv := &http.Server{
			Addr:              cfg.metricsAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return err
				}
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error(err, "[bstctl] metrics server stopped")
					}
				}()
				logger.Info("[bstctl] metrics server started", zap.String("addr", ln.Addr().String()))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return infra.AppendErrorStack(nil, srv.Shutdown(ctx), shutdown(ctx))
			},
		})
		return mp, nil
	default:
	}
	return nil, infra.NewErrorStack("[bstctl] unknown metrics exporter " + cfg.metrics)
}

func newContainer(cfg appConfig, logger xlog.XLogger, mp metric.MeterProvider) tree.BST {
	inner := tree.NewBST()
	if cfg.threadSafe {
		inner = tree.NewThreadSafeBST()
	}
	return observability.NewObservedBST(inner,
		observability.WithObservedName("bstctl"),
		observability.WithObservedLogger(logger),
		observability.WithObservedMeterProvider(mp),
	)
}

func newREPL(cfg appConfig, bst tree.BST, logger xlog.XLogger) *repl {
	return &repl{
		bst:    bst,
		logger: logger,
		in:     cfg.in,
		out:    cfg.out,
		prompt: cfg.prompt,
	}
}

func setMaxProcs(logger xlog.XLogger) error {
	_, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	return err
}

func appOptions(cfg appConfig) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newMeterProvider,
			newContainer,
			newREPL,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(setMaxProcs),
	}
}
