package xlog

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/bstkv/lib/infra"
)

var _ XLogger = (*xLogger)(nil)

// xLogger is wrapper logger of Uber zap logger.
type xLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
	// context key to log field name, in the order of registration.
	ctxFields []ctxField
	stops     []func() error
}

type ctxField struct {
	key, name string
}

// IncreaseLogLevel we can increase or decrease the log level concurrently.
func (l *xLogger) IncreaseLogLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

func (l *xLogger) Level() string {
	return l.level.Level().CapitalString()
}

func (l *xLogger) Sync() error {
	return l.logger.Sync()
}

// Close flushes and stops the buffered writers.
func (l *xLogger) Close() error {
	merr := l.Sync()
	for _, stop := range l.stops {
		merr = multierr.Append(merr, stop())
	}
	l.stops = nil
	return merr
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	if err != nil {
		fields = append([]zap.Field{zap.String("error", err.Error())}, fields...)
	}
	l.logger.Error(msg, fields...)
}

func (l *xLogger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	if ce := l.logger.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(l.withContext(ctx, fields)...)
	}
}

func (l *xLogger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	if ce := l.logger.Check(zapcore.InfoLevel, msg); ce != nil {
		ce.Write(l.withContext(ctx, fields)...)
	}
}

func (l *xLogger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	if ce := l.logger.Check(zapcore.WarnLevel, msg); ce != nil {
		ce.Write(l.withContext(ctx, fields)...)
	}
}

func (l *xLogger) ErrorStackContext(ctx context.Context, err error, msg string, fields ...zap.Field) {
	ce := l.logger.Check(zapcore.ErrorLevel, msg)
	if ce == nil {
		return
	}
	if es, ok := err.(infra.ErrorStack); ok && es != nil {
		fields = append([]zap.Field{zap.Inline(es)}, fields...)
	} else if err != nil {
		fields = append([]zap.Field{zap.String("error", err.Error())}, fields...)
	}
	ce.Write(l.withContext(ctx, fields)...)
}

// Logf is low performance, prefer the structured methods.
func (l *xLogger) Logf(lvl zapcore.Level, format string, args ...any) {
	l.logger.Log(lvl, fmt.Sprintf(format, args...))
}

// withContext puts the registered context values ahead of fields.
// A key absent from ctx is left out of the entry.
func (l *xLogger) withContext(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil || len(l.ctxFields) == 0 {
		return fields
	}
	res := make([]zap.Field, 0, len(l.ctxFields)+len(fields))
	for _, f := range l.ctxFields {
		if v := ctx.Value(ctxKey(f.key)); v != nil {
			res = append(res, zap.Any(f.name, v))
		}
	}
	return append(res, fields...)
}

type loggerCfg struct {
	ctxFields   []ctxField
	encoderType logEncoderType
	level       *zapcore.Level
	writers     []zapcore.WriteSyncer
}

func (cfg *loggerCfg) apply(l *xLogger) []zapcore.Core {
	if cfg.level != nil {
		l.level = zap.NewAtomicLevelAt(*cfg.level)
	} else {
		// INFO when the variable is absent or unknown.
		lvl, _ := ParseLogLevel(os.Getenv("XLOG_LVL"))
		l.level = zap.NewAtomicLevelAt(lvl.ZapLevel())
	}
	l.ctxFields = cfg.ctxFields

	writers := cfg.writers
	if len(writers) == 0 {
		out := newStdOutWriteSyncer()
		l.stops = append(l.stops, out.Stop)
		writers = []zapcore.WriteSyncer{out}
	}
	cores := make([]zapcore.Core, 0, len(writers))
	for _, ws := range writers {
		cores = append(cores, newConsoleCore(l.level, cfg.encoderType, ws))
	}
	return cores
}

type XLoggerOption func(*loggerCfg) error

// NewXLogger panics on an invalid option. Entries are written as JSON
// into the buffered stdout unless the options say otherwise.
func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := &loggerCfg{encoderType: JSON}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			panic(err)
		}
	}
	xl := &xLogger{}
	cores := cfg.apply(xl)

	// Disable zap logger error stack.
	xl.logger = zap.New(
		zapcore.NewTee(cores...),
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	return xl
}

// WithXLoggerWriter adds one more destination, each writer receives
// every entry.
func WithXLoggerWriter(ws zapcore.WriteSyncer) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if ws == nil {
			return infra.NewErrorStack("[XLogger] nil write syncer")
		}
		cfg.writers = append(cfg.writers, ws)
		return nil
	}
}

func WithXLoggerEncoder(logEnc logEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return infra.NewErrorStack("[XLogger] unknown encoder")
		}
		cfg.encoderType = logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl logLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := lvl.ZapLevel()
		cfg.level = &_lvl
		return nil
	}
}

// WithXLoggerContextFieldExtract logs the value stored by
// ContextWithField under key as the field mapTo[0], or as key itself
// when mapTo is omitted or ContextKeyMapToItself.
// Registering the same key again renames its field.
func WithXLoggerContextFieldExtract(key string, mapTo ...string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if len(key) == 0 {
			return infra.NewErrorStack("[XLogger] empty context field key")
		}
		name := key
		if len(mapTo) > 0 && mapTo[0] != ContextKeyMapToItself {
			name = mapTo[0]
		}
		if i := slices.IndexFunc(cfg.ctxFields, func(f ctxField) bool { return f.key == key }); i >= 0 {
			cfg.ctxFields[i].name = name
			return nil
		}
		cfg.ctxFields = append(cfg.ctxFields, ctxField{key: key, name: name})
		return nil
	}
}

type ctxKey string

// ContextWithField is the counterpart of WithXLoggerContextFieldExtract.
func ContextWithField(ctx context.Context, key string, val any) context.Context {
	return context.WithValue(ctx, ctxKey(key), val)
}
