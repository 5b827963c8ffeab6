package xlog

import (
	"go.uber.org/zap/zapcore"
)

// newConsoleCore encodes one entry per line into ws. Every core of a
// logger shares the same level enabler, so changing the level applies
// to all the writers at once.
func newConsoleCore(lvlEnabler zapcore.LevelEnabler, encoder logEncoderType, ws zapcore.WriteSyncer) zapcore.Core {
	newEncoder, ok := encoderMap[encoder]
	if !ok {
		newEncoder = zapcore.NewJSONEncoder
	}
	return zapcore.NewCore(newEncoder(zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		TimeKey:       "ts",
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}), ws, lvlEnabler)
}
