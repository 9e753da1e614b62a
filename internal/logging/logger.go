package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the probe's logger: a rotated JSON file under logDir plus
// a console core on stderr so the output lands in the deploy log. verbose
// lowers the console threshold to debug.
func NewLogger(logDir string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "deploycheck.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.TimeKey = "ts"

	consoleLevel := zap.InfoLevel
	if verbose {
		consoleLevel = zap.DebugLevel
	}
	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), w, zap.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), consoleLevel),
	)
	return zap.New(core), nil
}
