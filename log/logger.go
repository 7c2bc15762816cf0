package log

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

type (
	// Logger is a named zap logger. Components get their own child via Named.
	Logger struct {
		l    *zap.Logger
		name string
	}
	Field = zap.Field
	Level = zapcore.Level
)

// Config describes the logging setup. Filters use zapfilter rule syntax,
// for example "debug:ingest*" to get debug output of the ingest loggers only.
type Config struct {
	DefaultLevel string   `yaml:"defaultLevel"`
	Filters      []string `yaml:"filters"`
}

var defaultLogger *Logger

//nolint:gochecknoinits // default logger must be usable before any setup
func init() {
	defaultLogger = DevelopmentLogger()
}

func Default() *Logger {
	return defaultLogger
}

// ResetDefault replaces the default logger. Loggers created via
// Default().Named(...) before this call keep their old backend.
func ResetDefault(l *Logger) {
	defaultLogger = l
}

func New(core zapcore.Core, opts ...zap.Option) *Logger {
	return &Logger{l: zap.New(core, opts...)}
}

func DevelopmentLogger() *Logger {
	l, _ := zap.NewDevelopment()
	return &Logger{l: l}
}

func ProductionLogger() *Logger {
	l, _ := zap.NewProduction()
	return &Logger{l: l}
}

func ParseLevel(arg string) (Level, error) {
	return zapcore.ParseLevel(arg)
}

// LoadConfig reads a yaml logging configuration.
func LoadConfig(fileName string) (*Config, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	ret := &Config{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// NewWithConfig creates a logger honoring cfg. format is "text" or "json".
func NewWithConfig(cfg *Config, format string) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.DefaultLevel != "" {
		var err error
		if level, err = ParseLevel(cfg.DefaultLevel); err != nil {
			return nil, fmt.Errorf("invalid default level %s: %w", cfg.DefaultLevel, err)
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	if len(cfg.Filters) > 0 {
		rules, err := zapfilter.ParseRules(joinRules(cfg.Filters))
		if err != nil {
			return nil, fmt.Errorf("invalid log filters: %w", err)
		}
		core = zapfilter.NewFilteringCore(core, rules)
	}
	return New(core), nil
}

func joinRules(filters []string) string {
	ret := ""
	for i, f := range filters {
		if i > 0 {
			ret += " "
		}
		ret += f
	}
	return ret
}

func (l *Logger) Named(name string) *Logger {
	combined := name
	if l.name != "" {
		combined = l.name + "." + name
	}
	return &Logger{l: l.l.Named(name), name: combined}
}

func (l *Logger) Name() string { return l.name }

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Sync() error { return l.l.Sync() }

// package-level shortcuts targeting the default logger

func Debug(msg string, fields ...Field) { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { defaultLogger.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { defaultLogger.Fatal(msg, fields...) }

// field helpers so callers don't need to import zap themselves

func String(key, val string) Field          { return zap.String(key, val) }
func Int(key string, val int) Field         { return zap.Int(key, val) }
func Int64(key string, val int64) Field     { return zap.Int64(key, val) }
func Uint32(key string, val uint32) Field   { return zap.Uint32(key, val) }
func Float64(key string, val float64) Field { return zap.Float64(key, val) }
func Bool(key string, val bool) Field       { return zap.Bool(key, val) }
func Any(key string, val interface{}) Field { return zap.Any(key, val) }
func ErrorField(err error) Field            { return zap.Error(err) }

func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
