// Package log is the process-wide logrus logger.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

type Level logrus.Level

const (
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006/01/02 15:04:05",
		PadLevelText:           true,
		DisableLevelTruncation: true,
	}
	return l
}

func SetLevel(level Level) {
	Logger.SetLevel(logrus.Level(level))
}

func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// WithField starts a structured entry, e.g. log.WithField("university", name).Error(err).
func WithField(key string, value any) *logrus.Entry {
	return Logger.WithField(key, value)
}

func WithFields(fields map[string]any) *logrus.Entry {
	return Logger.WithFields(logrus.Fields(fields))
}

func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// Log writes args at level, tagged with a dotted failure code such as
// "db.get_matches".
func Log(level Level, code string, args ...any) {
	Logger.WithField("code", code).Log(logrus.Level(level), args...)
}

func Debugf(format string, args ...any) { Logger.Debugf(format, args...) }
func Infof(format string, args ...any)  { Logger.Infof(format, args...) }
func Warnf(format string, args ...any)  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...any) { Logger.Errorf(format, args...) }

func Info(args ...any) {
	Logger.Infoln(args...)
}

func Fatal(args ...any) {
	Logger.Fatalln(args...)
}
