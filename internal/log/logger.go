// Package log provides structured logging for colfm on top of logrus.
//
// The terminal belongs to the UI, so the package-level logger discards output
// until Configure points it at a file (rotated with lumberjack) or a writer.
package log

import (
	"io"

	"colfm/internal/errors"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	isDebug = false
	logger  = NewLogger(WithOutput(io.Discard))
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus logger together with the fields bound to it.
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *lumberjack.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to JSON lines with "timestamp" and "message" keys.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithFile writes to path, rotating once the file grows past 5 MB.
func WithFile(path string) Option {
	return func(l *Logger) {
		l.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5,
			MaxBackups: 2,
		}
		l.base.SetOutput(l.file)
	}
}

// NewLogger creates a logger. Without options it writes text lines to stderr.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	base.SetLevel(logrus.TraceLevel)
	l := &Logger{base: base, fields: logrus.Fields{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	if logger != nil && logger.file != nil {
		_ = logger.file.Close()
	}
	logger = NewLogger(opts...)
}

// Close releases the log file, if any.
func Close() error {
	if logger.file != nil {
		return logger.file.Close()
	}
	return nil
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a child logger carrying the extra fields.
func (l *Logger) With(fields ...Field) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, fields: merged, file: l.file}
}

func (l *Logger) entry() *logrus.Entry {
	return l.base.WithFields(l.fields)
}

func (l *Logger) Info(msg string)  { l.entry().Info(msg) }
func (l *Logger) Warn(msg string)  { l.entry().Warn(msg) }
func (l *Logger) Error(msg string) { l.entry().Error(msg) }

func (l *Logger) Infof(format string, args ...interface{}) { l.entry().Infof(format, args...) }

// Debug logs only when debug output is enabled.
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.entry().Debug(msg)
	}
}

// Debugf logs a formatted message only when debug output is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.entry().Debugf(format, args...)
	}
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError attaches err and whatever typed details it carries.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error()), F("error_kind", errors.KindOf(err).String())}
	var cmdErr *errors.CommandError
	if errors.As(err, &cmdErr) {
		fields = append(fields, F("command", cmdErr.Command()))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Debug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
