package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Modes accepted by New.
const (
	ModeDebug  = "debug"  // console encoder on stdout, debug level
	ModeStdout = "stdout" // JSON on stdout, info level
	ModeFile   = "file"   // JSON into a rotating file, info level
)

const (
	defaultDir        = "logs"
	defaultFilename   = "zapp.log"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 7
	defaultMaxAgeDays = 30
)

// Options configures file output. Zero values fall back to defaults.
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds the service logger for mode. Unknown modes behave like ModeStdout.
// If the log file cannot be opened, output falls back to stdout.
func New(mode string, opts Options) *zap.Logger {
	mode = strings.ToLower(strings.TrimSpace(mode))
	enc := encoderConfig()
	if mode == ModeDebug {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(os.Stdout), zap.DebugLevel)
		return zap.New(core, zap.AddCaller())
	}

	sink := zapcore.AddSync(os.Stdout)
	if mode == ModeFile {
		ws, err := fileSyncer(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file unavailable, using stdout: %v\n", err)
		} else {
			sink = ws
		}
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, zap.InfoLevel)
	return zap.New(core, zap.AddCaller())
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func encoderConfig() zapcore.EncoderConfig {
	c := zap.NewProductionEncoderConfig()
	c.TimeKey = "time"
	c.MessageKey = "message"
	c.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncodeDuration = zapcore.MillisDurationEncoder
	c.EncodeLevel = zapcore.LowercaseLevelEncoder
	c.EncodeCaller = zapcore.ShortCallerEncoder
	return c
}

func fileSyncer(opts Options) (zapcore.WriteSyncer, error) {
	path, err := resolveFilePath(opts)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: positiveOr(opts.MaxBackups, defaultMaxBackups),
		MaxAge:     positiveOr(opts.MaxAgeDays, defaultMaxAgeDays),
		Compress:   opts.Compress,
	}), nil
}

func resolveFilePath(opts Options) (string, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := strings.TrimSpace(opts.Filename)
	if name == "" {
		name = defaultFilename
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close log file: %w", err)
	}
	return path, nil
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
