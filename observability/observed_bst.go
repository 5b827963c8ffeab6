package observability

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/bstkv/lib/tree"
	"github.com/benz9527/bstkv/xlog"
)

const (
	opAdd    = "add"
	opGet    = "get"
	opRemove = "remove"

	resultOK = "ok"
)

var _ tree.Decorator = (*observedBST)(nil)

// observedBST reports the outcome of every operation of the inner
// container. Errors are returned as they are, so callers still
// compare them with the tree.ErrorKind values.
type observedBST struct {
	inner   tree.BST
	name    string
	logger  xlog.XLogger
	attrs   attribute.Set
	ops     metric.Int64Counter
	entries metric.Int64ObservableUpDownCounter
	count   atomic.Int64
}

func (o *observedBST) Add(key, val int32) error {
	err := o.inner.Add(key, val)
	if err == nil {
		o.count.Add(1)
	}
	o.record(opAdd, err, zap.Int32("key", key), zap.Int32("val", val))
	return err
}

func (o *observedBST) Get(key int32) (int32, error) {
	val, err := o.inner.Get(key)
	o.record(opGet, err, zap.Int32("key", key), zap.Int32("val", val))
	return val, err
}

func (o *observedBST) Remove(key int32) (int32, error) {
	val, err := o.inner.Remove(key)
	if err == nil {
		o.count.Add(-1)
	}
	o.record(opRemove, err, zap.Int32("key", key), zap.Int32("val", val))
	return val, err
}

func (o *observedBST) Unwrap() tree.BST {
	return o.inner
}

func (o *observedBST) record(op string, err error, fields ...zap.Field) {
	result := resultOf(err)
	o.ops.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("tree", o.name),
		attribute.String("op", op),
		attribute.String("result", result),
	))

	if o.logger == nil {
		return
	}
	fields = append(fields, zap.String("tree", o.name), zap.String("op", op))
	var kind tree.ErrorKind
	switch {
	case err == nil:
		o.logger.Debug("[bst] operation done", fields...)
	case errors.As(err, &kind):
		o.logger.Warn("[bst] operation rejected", append(fields, zap.Stringer("kind", kind))...)
	default:
		o.logger.Error(err, "[bst] operation failed", fields...)
	}
}

func resultOf(err error) string {
	if err == nil {
		return resultOK
	}
	var kind tree.ErrorKind
	if errors.As(err, &kind) {
		return kind.String()
	}
	return "Unknown"
}

type observedCfg struct {
	name   string
	logger xlog.XLogger
	mp     metric.MeterProvider
}

type ObservedBSTOption func(*observedCfg)

func WithObservedName(name string) ObservedBSTOption {
	return func(cfg *observedCfg) {
		cfg.name = strings.TrimSpace(name)
	}
}

// WithObservedLogger enables the logging of each operation outcome.
func WithObservedLogger(logger xlog.XLogger) ObservedBSTOption {
	return func(cfg *observedCfg) {
		cfg.logger = logger
	}
}

// WithObservedMeterProvider replaces the otel global meter provider.
func WithObservedMeterProvider(mp metric.MeterProvider) ObservedBSTOption {
	return func(cfg *observedCfg) {
		cfg.mp = mp
	}
}

// NewObservedBST decorates an empty inner container. The entries
// gauge counts from zero, so inner must not hold entries yet.
func NewObservedBST(inner tree.BST, opts ...ObservedBSTOption) tree.BST {
	cfg := &observedCfg{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if len(cfg.name) == 0 {
		cfg.name = "default"
	}
	if cfg.mp == nil {
		cfg.mp = otel.GetMeterProvider()
	}

	builder := &strings.Builder{}
	builder.WriteString("bstkv/tree/")
	builder.WriteString(cfg.name)
	meter := cfg.mp.Meter(
		builder.String(),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)

	o := &observedBST{
		inner:  inner,
		name:   cfg.name,
		logger: cfg.logger,
		attrs:  attribute.NewSet(attribute.String("tree", cfg.name)),
	}
	o.ops = lo.Must[metric.Int64Counter](meter.Int64Counter(
		"bst.operations",
		metric.WithDescription(`The container operations by op and result.`),
	))
	o.entries = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"bst.entries",
		metric.WithDescription(`The live entries of the container.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(o.count.Load(), metric.WithAttributeSet(o.attrs))
			return nil
		}),
	))
	return o
}
